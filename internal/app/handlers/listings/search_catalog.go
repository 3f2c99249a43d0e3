package listings

import (
	"context"

	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/queries"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const searchCatalogKey = "listings.catalog"

// SearchCatalogQuery runs the catalog engine over the whole listing snapshot.
// Limit and Offset page the matches; a zero Limit returns all of them.
type SearchCatalogQuery struct {
	Spec   domainlistings.FilterSpec
	Limit  int
	Offset int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

// CatalogObserver is told how many listings each search matched.
type CatalogObserver interface {
	ObserveCatalogMatches(matches int)
}

type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
	Observer   CatalogObserver
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ListingCatalog, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Listings().All(execCtx)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	matches := domainlistings.Query(all, q.Spec)
	if h.Observer != nil {
		h.Observer.ObserveCatalogMatches(len(matches))
	}

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	page := support.Page(matches, q.Limit, offset)
	items := make([]dto.ListingCard, 0, len(page))
	for _, listing := range page {
		items = append(items, dto.MapListingCard(listing))
	}
	return dto.ListingCatalog{
		Items:   items,
		Filters: dto.MapCatalogFilters(q.Spec),
		Meta: dto.CatalogMetadata{
			Total:  len(matches),
			Count:  len(items),
			Limit:  q.Limit,
			Offset: offset,
		},
	}, nil
}

var _ queries.Handler[SearchCatalogQuery, dto.ListingCatalog] = (*SearchCatalogHandler)(nil)
