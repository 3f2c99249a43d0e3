package leads

import (
	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/queries"
)

func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, submit *SubmitInquiryHandler, list *AdminListInquiriesHandler, markHandled *MarkInquiryHandledHandler) {
	commands.RegisterHandler[SubmitInquiryCommand, dto.InquiryReceipt](cmdBus, SubmitInquiryCommand{}.Key(), submit)
	commands.RegisterHandler[MarkInquiryHandledCommand, dto.Inquiry](cmdBus, MarkInquiryHandledCommand{}.Key(), markHandled)
	queries.RegisterHandler[AdminListInquiriesQuery, dto.InquiryCollection](queryBus, AdminListInquiriesQuery{}.Key(), list)
}
