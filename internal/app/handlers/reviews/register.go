package reviews

import (
	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/queries"
)

func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, submit *SubmitReviewHandler, list *ListListingReviewsHandler, adminList *AdminListReviewsHandler, moderation *ModerationHandler) {
	commands.RegisterHandler[SubmitReviewCommand, dto.Review](cmdBus, SubmitReviewCommand{}.Key(), submit)
	commands.RegisterHandler[ModerateReviewCommand, dto.Review](cmdBus, ModerateReviewCommand{}.Key(),
		commands.HandlerFunc[ModerateReviewCommand, dto.Review](moderation.Moderate))
	commands.RegisterHandler[DeleteReviewCommand, struct{}](cmdBus, DeleteReviewCommand{}.Key(),
		commands.HandlerFunc[DeleteReviewCommand, struct{}](moderation.Delete))

	queries.RegisterHandler[ListListingReviewsQuery, dto.ReviewCollection](queryBus, ListListingReviewsQuery{}.Key(), list)
	queries.RegisterHandler[AdminListReviewsQuery, dto.ReviewCollection](queryBus, AdminListReviewsQuery{}.Key(), adminList)
}
