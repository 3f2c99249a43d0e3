package leads

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibestays/internal/app/outbox"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	"vibestays/internal/infra/storage/memory"
)

type countingObserver struct {
	general, scoped int
}

func (o *countingObserver) ObserveInquiry(listingScoped bool) {
	if listingScoped {
		o.scoped++
		return
	}
	o.general++
}

func setup(t *testing.T) (memory.Factory, *memory.Outbox, *SubmitInquiryHandler, *countingObserver) {
	t.Helper()
	factory := memory.NewFactory()
	listing, err := domainlistings.NewListing("cottage-5", domainlistings.Attributes{
		Name:         "Riverside Valley Cottage",
		Location:     "Ziro Town",
		State:        "Arunachal Pradesh",
		Price:        4200,
		PriceUnit:    domainlistings.PerNight,
		MaxGuests:    6,
		PropertyType: domainlistings.PropertyCottage,
	}, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, factory.ListingsRepo.Save(context.Background(), listing))

	box := memory.NewOutbox(nil)
	observer := &countingObserver{}
	h := &SubmitInquiryHandler{UoWFactory: factory, Outbox: box, Encoder: outbox.JSONEventEncoder{}, Observer: observer}
	return factory, box, h, observer
}

func TestSubmitInquiry_General(t *testing.T) {
	factory, box, h, observer := setup(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	receipt, err := h.Handle(context.Background(), SubmitInquiryCommand{
		Name: " Ravi ", Email: "Ravi@Example.com", Message: "Do you host corporate offsites?", Now: at,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, "new", receipt.Status)
	assert.Equal(t, at, receipt.CreatedAt)

	stored, err := factory.InquiriesRepo.ByID(context.Background(), domainleads.InquiryID(receipt.ID))
	require.NoError(t, err)
	assert.Equal(t, "Ravi", stored.Name)
	assert.Equal(t, "ravi@example.com", stored.Email)

	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "inquiry.submitted", pending[0].Name)
	assert.Equal(t, receipt.ID, pending[0].Aggregate)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, "Do you host corporate offsites?", payload["message"])
	assert.Equal(t, 1, observer.general)
}

func TestSubmitInquiry_FromListingFillsProperty(t *testing.T) {
	factory, _, h, observer := setup(t)

	receipt, err := h.Handle(context.Background(), SubmitInquiryCommand{
		Name: "Meera", Email: "meera@example.com", Message: "Is it open in July?", ListingID: "cottage-5",
	})
	require.NoError(t, err)

	stored, err := factory.InquiriesRepo.ByID(context.Background(), domainleads.InquiryID(receipt.ID))
	require.NoError(t, err)
	assert.Equal(t, "Riverside Valley Cottage", stored.PropertyName)
	assert.Equal(t, "Ziro Town, Arunachal Pradesh", stored.Location)
	assert.Equal(t, 1, observer.scoped)
}

func TestSubmitInquiry_Errors(t *testing.T) {
	_, box, h, observer := setup(t)

	tests := []struct {
		name string
		cmd  SubmitInquiryCommand
		want error
	}{
		{"missing name", SubmitInquiryCommand{Email: "a@b.c", Message: "hi"}, domainleads.ErrNameRequired},
		{"email without at", SubmitInquiryCommand{Name: "A", Email: "ab.c", Message: "hi"}, domainleads.ErrInvalidEmail},
		{"email with trailing at", SubmitInquiryCommand{Name: "A", Email: "ab@", Message: "hi"}, domainleads.ErrInvalidEmail},
		{"missing message", SubmitInquiryCommand{Name: "A", Email: "a@b.c", Message: "  "}, domainleads.ErrMessageRequired},
		{"unknown listing", SubmitInquiryCommand{Name: "A", Email: "a@b.c", Message: "hi", ListingID: "nope"}, domainlistings.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.True(t, IsValidationError(domainleads.ErrInvalidEmail))
	assert.False(t, IsValidationError(domainlistings.ErrNotFound))
	assert.Empty(t, box.Pending())
	assert.Zero(t, observer.general+observer.scoped)
}

func TestInquiryInbox(t *testing.T) {
	factory, box, h, _ := setup(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]string, 0, 3)
	for i, name := range []string{"First", "Second", "Third"} {
		receipt, err := h.Handle(ctx, SubmitInquiryCommand{Name: name, Email: "x@y.z", Message: "hello", Now: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
		ids = append(ids, receipt.ID)
	}

	mark := &MarkInquiryHandledHandler{UoWFactory: factory, Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	handled, err := mark.Handle(ctx, MarkInquiryHandledCommand{ID: ids[0], Now: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "handled", handled.Status)
	require.NotNil(t, handled.HandledAt)

	_, err = mark.Handle(ctx, MarkInquiryHandledCommand{ID: ids[0]})
	assert.ErrorIs(t, err, domainleads.ErrAlreadyHandled)
	_, err = mark.Handle(ctx, MarkInquiryHandledCommand{ID: "missing"})
	assert.ErrorIs(t, err, domainleads.ErrNotFound)

	list := &AdminListInquiriesHandler{UoWFactory: factory}
	all, err := list.Handle(ctx, AdminListInquiriesQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, ids[2], all.Items[0].ID)

	fresh, err := list.Handle(ctx, AdminListInquiriesQuery{Status: domainleads.StatusNew, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Total)
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, ids[2], fresh.Items[0].ID)
}
