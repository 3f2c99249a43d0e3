package listings

import (
	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/queries"
)

// Register binds the listing handlers to the buses.
func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, catalog *SearchCatalogHandler, featured *FeaturedListingsHandler, detail *GetListingHandler, adminList *AdminListListingsHandler, manage *ManageListingsHandler, upload *UploadListingImageHandler) {
	queries.RegisterHandler[SearchCatalogQuery, dto.ListingCatalog](queryBus, SearchCatalogQuery{}.Key(), catalog)
	queries.RegisterHandler[FeaturedListingsQuery, []dto.ListingCard](queryBus, FeaturedListingsQuery{}.Key(), featured)
	queries.RegisterHandler[GetListingQuery, dto.ListingDetail](queryBus, GetListingQuery{}.Key(), detail)
	queries.RegisterHandler[AdminListListingsQuery, dto.ListingCollection](queryBus, AdminListListingsQuery{}.Key(), adminList)

	commands.RegisterHandler[CreateListingCommand, dto.ListingDetail](cmdBus, CreateListingCommand{}.Key(),
		commands.HandlerFunc[CreateListingCommand, dto.ListingDetail](manage.Create))
	commands.RegisterHandler[UpdateListingCommand, dto.ListingDetail](cmdBus, UpdateListingCommand{}.Key(),
		commands.HandlerFunc[UpdateListingCommand, dto.ListingDetail](manage.Update))
	commands.RegisterHandler[DeleteListingCommand, struct{}](cmdBus, DeleteListingCommand{}.Key(),
		commands.HandlerFunc[DeleteListingCommand, struct{}](manage.Delete))
	commands.RegisterHandler[ImportListingsCommand, ImportResult](cmdBus, ImportListingsCommand{}.Key(),
		commands.HandlerFunc[ImportListingsCommand, ImportResult](manage.Import))
	if upload != nil {
		commands.RegisterHandler[UploadListingImageCommand, dto.ImageUpload](cmdBus, UploadListingImageCommand{}.Key(), upload)
	}
}
