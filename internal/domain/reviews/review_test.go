package reviews

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	review, err := Submit(SubmitParams{ID: "r1", ListingID: "villa-1", GuestName: " Priya ", Rating: 5, Comment: " Lovely stay ", CreatedAt: now})
	require.NoError(t, err)

	assert.Equal(t, "Priya", review.GuestName)
	assert.Equal(t, "Lovely stay", review.Comment)
	assert.False(t, review.Approved)
	assert.False(t, review.Verified)

	events := review.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "review.submitted", events[0].EventName())
}

func TestSubmit_Validation(t *testing.T) {
	base := SubmitParams{ID: "r1", ListingID: "villa-1", GuestName: "Priya", Rating: 4, Comment: "ok"}
	tests := []struct {
		name   string
		mutate func(*SubmitParams)
		want   error
	}{
		{"rating too low", func(p *SubmitParams) { p.Rating = 0 }, ErrInvalidRating},
		{"rating too high", func(p *SubmitParams) { p.Rating = 6 }, ErrInvalidRating},
		{"guest name", func(p *SubmitParams) { p.GuestName = "" }, ErrGuestNameRequired},
		{"comment", func(p *SubmitParams) { p.Comment = "   " }, ErrCommentRequired},
		{"listing", func(p *SubmitParams) { p.ListingID = "" }, ErrListingRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := Submit(params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestModerate(t *testing.T) {
	review := &Review{ID: "r1", ListingID: "villa-1"}

	require.NoError(t, review.Moderate(ActionApprove, time.Now()))
	assert.True(t, review.Approved)
	require.NoError(t, review.Moderate(ActionVerify, time.Now()))
	assert.True(t, review.Verified)
	require.NoError(t, review.Moderate(ActionReject, time.Now()))
	assert.False(t, review.Approved)
	assert.True(t, review.Verified)

	assert.ErrorIs(t, review.Moderate("pin", time.Now()), ErrUnknownAction)
	assert.Len(t, review.DrainEvents(), 3)
}

func TestSummarize(t *testing.T) {
	items := []*Review{
		{Rating: 5, Approved: true},
		{Rating: 4, Approved: true},
		{Rating: 4, Approved: true},
		{Rating: 1, Approved: false},
		nil,
	}
	avg, count := Summarize(items)
	assert.Equal(t, 4.3, avg)
	assert.Equal(t, 3, count)

	avg, count = Summarize(nil)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestSortNewest(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	items := []*Review{{ID: "a", CreatedAt: day(1)}, {ID: "b", CreatedAt: day(3)}, {ID: "c", CreatedAt: day(2)}}
	SortNewest(items)
	assert.Equal(t, ReviewID("b"), items[0].ID)
	assert.Equal(t, ReviewID("c"), items[1].ID)
	assert.Equal(t, ReviewID("a"), items[2].ID)
}
