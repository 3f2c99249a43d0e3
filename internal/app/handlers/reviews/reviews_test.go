package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibestays/internal/app/outbox"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
	"vibestays/internal/infra/storage/memory"
)

type fixture struct {
	factory memory.Factory
	box     *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	factory := memory.NewFactory()
	listing, err := domainlistings.NewListing("villa-1", domainlistings.Attributes{
		Name:         "Mountain Paradise Villa",
		Location:     "Jibhi",
		State:        "Himachal Pradesh",
		Price:        8500,
		PriceUnit:    domainlistings.PerNight,
		MaxGuests:    8,
		PropertyType: domainlistings.PropertyVilla,
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, factory.ListingsRepo.Save(context.Background(), listing))
	return fixture{factory: factory, box: memory.NewOutbox(nil)}
}

func (f fixture) submit(t *testing.T, rating int, at time.Time) string {
	t.Helper()
	h := &SubmitReviewHandler{UoWFactory: f.factory, Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	res, err := h.Handle(context.Background(), SubmitReviewCommand{
		ListingID: "villa-1", GuestName: "Asha", Rating: rating, Comment: "Lovely stay", Now: at,
	})
	require.NoError(t, err)
	return res.ID
}

func (f fixture) moderation() *ModerationHandler {
	return &ModerationHandler{UoWFactory: f.factory, Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
}

func (f fixture) listing(t *testing.T) *domainlistings.Listing {
	t.Helper()
	listing, err := f.factory.ListingsRepo.ByID(context.Background(), "villa-1")
	require.NoError(t, err)
	return listing
}

func TestSubmitReview_StoresPendingReview(t *testing.T) {
	f := newFixture(t)
	id := f.submit(t, 5, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	stored, err := f.factory.ReviewsRepo.ByID(context.Background(), domainreviews.ReviewID(id))
	require.NoError(t, err)
	assert.False(t, stored.Approved)
	assert.Equal(t, 0, f.listing(t).ReviewCount)

	pending := f.box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "review.submitted", pending[0].Name)
}

func TestSubmitReview_Validation(t *testing.T) {
	f := newFixture(t)
	h := &SubmitReviewHandler{UoWFactory: f.factory, Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}

	_, err := h.Handle(context.Background(), SubmitReviewCommand{ListingID: "missing", GuestName: "A", Rating: 4, Comment: "ok"})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)

	_, err = h.Handle(context.Background(), SubmitReviewCommand{ListingID: "villa-1", GuestName: "A", Rating: 6, Comment: "ok"})
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)

	assert.Empty(t, f.box.Pending())
}

func TestSubmitReview_IdempotencyContract(t *testing.T) {
	cmd := SubmitReviewCommand{RequestKey: "abc"}
	assert.Equal(t, "abc", cmd.IdempotencyKey())
	assert.NotNil(t, cmd.ResultPrototype())
}

func TestModerate_RecalculatesRating(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	first := f.submit(t, 5, base)
	second := f.submit(t, 4, base.Add(time.Hour))
	third := f.submit(t, 4, base.Add(2*time.Hour))

	h := f.moderation()
	ctx := context.Background()
	for _, id := range []string{first, second, third} {
		_, err := h.Moderate(ctx, ModerateReviewCommand{ReviewID: id, Action: domainreviews.ActionApprove})
		require.NoError(t, err)
	}
	listing := f.listing(t)
	assert.Equal(t, 4.3, listing.Rating)
	assert.Equal(t, 3, listing.ReviewCount)

	got, err := h.Moderate(ctx, ModerateReviewCommand{ReviewID: first, Action: domainreviews.ActionReject})
	require.NoError(t, err)
	assert.False(t, got.Approved)
	listing = f.listing(t)
	assert.Equal(t, 4.0, listing.Rating)
	assert.Equal(t, 2, listing.ReviewCount)

	got, err = h.Moderate(ctx, ModerateReviewCommand{ReviewID: second, Action: domainreviews.ActionVerify})
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.True(t, got.Approved)
}

func TestModerate_Errors(t *testing.T) {
	f := newFixture(t)
	id := f.submit(t, 3, time.Now())
	h := f.moderation()

	_, err := h.Moderate(context.Background(), ModerateReviewCommand{ReviewID: "nope", Action: domainreviews.ActionApprove})
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)

	_, err = h.Moderate(context.Background(), ModerateReviewCommand{ReviewID: id, Action: "feature"})
	assert.ErrorIs(t, err, domainreviews.ErrUnknownAction)
}

func TestDeleteReview_RecalculatesRating(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	keep := f.submit(t, 3, base)
	drop := f.submit(t, 5, base.Add(time.Hour))

	h := f.moderation()
	ctx := context.Background()
	for _, id := range []string{keep, drop} {
		_, err := h.Moderate(ctx, ModerateReviewCommand{ReviewID: id, Action: domainreviews.ActionApprove})
		require.NoError(t, err)
	}
	assert.Equal(t, 4.0, f.listing(t).Rating)

	_, err := h.Delete(ctx, DeleteReviewCommand{ReviewID: drop})
	require.NoError(t, err)
	listing := f.listing(t)
	assert.Equal(t, 3.0, listing.Rating)
	assert.Equal(t, 1, listing.ReviewCount)

	_, err = h.Delete(ctx, DeleteReviewCommand{ReviewID: drop})
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)
}

func TestListListingReviews_ApprovedNewestFirst(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	older := f.submit(t, 4, base)
	newer := f.submit(t, 5, base.Add(time.Hour))
	f.submit(t, 1, base.Add(2*time.Hour))

	h := f.moderation()
	for _, id := range []string{older, newer} {
		_, err := h.Moderate(context.Background(), ModerateReviewCommand{ReviewID: id, Action: domainreviews.ActionApprove})
		require.NoError(t, err)
	}

	list := &ListListingReviewsHandler{UoWFactory: f.factory}
	res, err := list.Handle(context.Background(), ListListingReviewsQuery{ListingID: "villa-1"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, newer, res.Items[0].ID)
	assert.Equal(t, older, res.Items[1].ID)
	assert.Equal(t, 2, res.Total)

	_, err = list.Handle(context.Background(), ListListingReviewsQuery{ListingID: "missing"})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestAdminListReviews_PendingFilter(t *testing.T) {
	f := newFixture(t)
	approved := f.submit(t, 4, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	pending := f.submit(t, 2, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	_, err := f.moderation().Moderate(context.Background(), ModerateReviewCommand{ReviewID: approved, Action: domainreviews.ActionApprove})
	require.NoError(t, err)

	h := &AdminListReviewsHandler{UoWFactory: f.factory}
	all, err := h.Handle(context.Background(), AdminListReviewsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	onlyPending, err := h.Handle(context.Background(), AdminListReviewsQuery{PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, onlyPending.Items, 1)
	assert.Equal(t, pending, onlyPending.Items[0].ID)
}
