package listings

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/queries"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
	"vibestays/internal/infra/storage/memory"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func attrs(name, location, state string, price float64, guests int, typ domainlistings.PropertyType) domainlistings.Attributes {
	return domainlistings.Attributes{
		Name:         name,
		Location:     location,
		State:        state,
		Price:        price,
		PriceUnit:    domainlistings.PerNight,
		MaxGuests:    guests,
		PropertyType: typ,
	}
}

func seed(t *testing.T) memory.Factory {
	t.Helper()
	factory := memory.NewFactory()
	ctx := context.Background()

	villa := attrs("Mountain Paradise Villa", "Jibhi", "Himachal Pradesh", 8500, 8, domainlistings.PropertyVilla)
	villa.Featured = true
	villa.ContactNumber = "+91 98765 43210"
	villa.WhatsAppNumber = "+91 98765-43210"
	resort := attrs("Crystal Sea Resort", "Agatti", "Lakshadweep", 12500, 4, domainlistings.PropertyResort)
	resort.Featured = true
	cottage := attrs("Riverside Valley Cottage", "Ziro Town", "Arunachal Pradesh", 4200, 6, domainlistings.PropertyCottage)

	for i, a := range []domainlistings.Attributes{villa, resort, cottage} {
		listing, err := domainlistings.NewListing(domainlistings.ListingID([]string{"1", "2", "5"}[i]), a, day(i+1))
		require.NoError(t, err)
		require.NoError(t, factory.ListingsRepo.Save(ctx, listing))
	}
	return factory
}

type matchRecorder struct{ seen []int }

func (r *matchRecorder) ObserveCatalogMatches(n int) { r.seen = append(r.seen, n) }

func TestSearchCatalog(t *testing.T) {
	factory := seed(t)
	observer := &matchRecorder{}
	h := &SearchCatalogHandler{UoWFactory: factory, Observer: observer}

	res, err := h.Handle(context.Background(), SearchCatalogQuery{
		Spec: domainlistings.FilterSpec{Location: "pradesh", SortBy: domainlistings.SortPriceLow},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "5", res.Items[0].ID)
	assert.Equal(t, "1", res.Items[1].ID)
	assert.Equal(t, 2, res.Meta.Total)
	assert.Equal(t, "price_low", res.Filters.Sort)
	assert.Equal(t, []int{2}, observer.seen)
}

func TestSearchCatalog_PagingKeepsTotal(t *testing.T) {
	h := &SearchCatalogHandler{UoWFactory: seed(t)}

	res, err := h.Handle(context.Background(), SearchCatalogQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Meta.Total)
	assert.Equal(t, 2, res.Meta.Count)
	assert.Equal(t, "2", res.Items[0].ID)

	res, err = h.Handle(context.Background(), SearchCatalogQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.Meta.Total)
}

func TestFeaturedListings(t *testing.T) {
	h := &FeaturedListingsHandler{UoWFactory: seed(t)}

	cards, err := h.Handle(context.Background(), FeaturedListingsQuery{})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "2", cards[0].ID)
	assert.Equal(t, "1", cards[1].ID)

	cards, err = h.Handle(context.Background(), FeaturedListingsQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestGetListing(t *testing.T) {
	factory := seed(t)
	ctx := context.Background()
	for i, approved := range []bool{true, false} {
		review, err := domainreviews.Submit(domainreviews.SubmitParams{
			ID: domainreviews.ReviewID([]string{"r1", "r2"}[i]), ListingID: "1",
			GuestName: "Guest", Rating: 5, Comment: "Great", CreatedAt: day(10 + i),
		})
		require.NoError(t, err)
		review.Approved = approved
		require.NoError(t, factory.ReviewsRepo.Save(ctx, review))
	}

	h := &GetListingHandler{UoWFactory: factory}
	detail, err := h.Handle(ctx, GetListingQuery{ID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "₹8,500 / night", detail.FormattedPrice)
	assert.Equal(t, "tel:+91 98765 43210", detail.Contact.PhoneURL)
	assert.Contains(t, detail.Contact.WhatsAppURL, "https://wa.me/919876543210?text=")
	assert.Equal(t, "Hi! I'm interested in Mountain Paradise Villa in Jibhi. Can you please provide more details?", detail.Contact.Message)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "r1", detail.Reviews[0].ID)

	_, err = h.Handle(ctx, GetListingQuery{ID: "404"})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
	_, err = h.Handle(ctx, GetListingQuery{ID: "  "})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestManageListings(t *testing.T) {
	factory := memory.NewFactory()
	box := memory.NewOutbox(nil)
	h := &ManageListingsHandler{UoWFactory: factory, Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	ctx := context.Background()

	created, err := h.Create(ctx, CreateListingCommand{
		Attributes: attrs("Cliffside Sea Villa", "Varkala", "Kerala", 6500, 6, domainlistings.PropertyVilla),
		Now:        day(3),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = h.Create(ctx, CreateListingCommand{Attributes: attrs("", "Varkala", "Kerala", 1, 1, domainlistings.PropertyVilla)})
	assert.ErrorIs(t, err, domainlistings.ErrNameRequired)

	stored, err := factory.ListingsRepo.ByID(ctx, domainlistings.ListingID(created.ID))
	require.NoError(t, err)
	require.NoError(t, stored.UpdateRating(4.7, 31, day(4)))
	require.NoError(t, factory.ListingsRepo.Save(ctx, stored))

	changed := attrs("Cliffside Sea Villa", "Varkala", "Kerala", 7000, 6, domainlistings.PropertyVilla)
	updated, err := h.Update(ctx, UpdateListingCommand{ID: created.ID, Attributes: changed, Now: day(5)})
	require.NoError(t, err)
	assert.Equal(t, 7000.0, updated.Price)
	assert.Equal(t, 4.7, updated.Rating)
	assert.Equal(t, 31, updated.ReviewCount)

	_, err = h.Update(ctx, UpdateListingCommand{ID: "missing", Attributes: changed})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "r1", ListingID: domainlistings.ListingID(created.ID), GuestName: "G", Rating: 4, Comment: "ok", CreatedAt: day(6),
	})
	require.NoError(t, err)
	require.NoError(t, factory.ReviewsRepo.Save(ctx, review))

	_, err = h.Delete(ctx, DeleteListingCommand{ID: created.ID})
	require.NoError(t, err)
	_, err = factory.ListingsRepo.ByID(ctx, domainlistings.ListingID(created.ID))
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
	_, err = factory.ReviewsRepo.ByID(ctx, "r1")
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)

	names := make([]string, 0)
	for _, rec := range box.Pending() {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"listing.created", "listing.updated", "listing.deleted"}, names)
}

func TestImportListings(t *testing.T) {
	factory := seed(t)
	box := memory.NewOutbox(nil)
	h := &ManageListingsHandler{UoWFactory: factory, Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	ctx := context.Background()

	res, err := h.Import(ctx, ImportListingsCommand{Now: day(10), Items: []ImportedListing{
		{ID: "1", Attributes: attrs("Mountain Paradise Villa", "Jibhi", "Himachal Pradesh", 9000, 8, domainlistings.PropertyVilla), Rating: 4.8, ReviewCount: 24},
		{ID: "9", Attributes: attrs("Tea Garden Homestay", "Munnar", "Kerala", 3200, 4, domainlistings.PropertyHomestay), Rating: 4.5, ReviewCount: 3, CreatedAt: day(2)},
		{ID: "10", Attributes: attrs("", "Munnar", "Kerala", 3200, 4, domainlistings.PropertyHomestay)},
		{Attributes: attrs("No Id", "Munnar", "Kerala", 3200, 4, domainlistings.PropertyHomestay)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{"10", "No Id"}, res.Skipped)

	villa, err := factory.ListingsRepo.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 9000.0, villa.Price)
	assert.Equal(t, 4.8, villa.Rating)
	assert.Equal(t, 24, villa.ReviewCount)

	homestay, err := factory.ListingsRepo.ByID(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, day(2), homestay.CreatedAt)
	assert.Equal(t, 3, homestay.ReviewCount)
	assert.Len(t, box.Pending(), 2)
}

func TestAdminListListings_NewestFirst(t *testing.T) {
	h := &AdminListListingsHandler{UoWFactory: seed(t)}
	res, err := h.Handle(context.Background(), AdminListListingsQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)
	assert.Equal(t, "5", res.Items[0].ID)
	assert.Equal(t, "1", res.Items[2].ID)
}

func TestRegister_RoutesThroughBuses(t *testing.T) {
	factory := seed(t)
	cmdBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	Register(cmdBus, queryBus,
		&SearchCatalogHandler{UoWFactory: factory},
		&FeaturedListingsHandler{UoWFactory: factory},
		&GetListingHandler{UoWFactory: factory},
		&AdminListListingsHandler{UoWFactory: factory},
		&ManageListingsHandler{UoWFactory: factory, Outbox: memory.NewOutbox(nil), Encoder: outbox.JSONEventEncoder{}},
		nil,
	)

	catalog, err := queries.Ask[SearchCatalogQuery, dto.ListingCatalog](context.Background(), queryBus, SearchCatalogQuery{
		Spec: domainlistings.FilterSpec{MaxGuests: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Meta.Total)

	_, err = commands.Dispatch[DeleteListingCommand, struct{}](context.Background(), cmdBus, DeleteListingCommand{ID: "5"})
	require.NoError(t, err)
}

type fakeUploader struct {
	keys []string
	body []byte
	err  error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	u.body = data
	return "https://cdn.example/vibestays-images/" + key, nil
}

func TestUploadListingImage(t *testing.T) {
	uploader := &fakeUploader{}
	h := &UploadListingImageHandler{UoWFactory: seed(t), Uploader: uploader}
	ctx := context.Background()

	res, err := h.Handle(ctx, UploadListingImageCommand{
		ListingID: "1", ObjectKey: "listings/1/a.jpg", ContentType: "image/jpeg", Reader: bytes.NewReader([]byte("jpeg")),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/vibestays-images/listings/1/a.jpg", res.URL)
	assert.Equal(t, []byte("jpeg"), uploader.body)

	_, err = h.Handle(ctx, UploadListingImageCommand{ObjectKey: "listings/draft/b.png", Reader: bytes.NewReader(nil)})
	require.NoError(t, err)

	_, err = h.Handle(ctx, UploadListingImageCommand{ListingID: "404", ObjectKey: "k", Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
	assert.Len(t, uploader.keys, 2)

	failing := &UploadListingImageHandler{UoWFactory: seed(t), Uploader: &fakeUploader{err: errors.New("bucket down")}}
	_, err = failing.Handle(ctx, UploadListingImageCommand{ObjectKey: "k", Reader: bytes.NewReader(nil)})
	assert.ErrorContains(t, err, "bucket down")

	_, err = (&UploadListingImageHandler{}).Handle(ctx, UploadListingImageCommand{ObjectKey: "k", Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrUploaderUnavailable)
}
