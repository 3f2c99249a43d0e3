package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioListings() []*Listing {
	return []*Listing{
		{ID: "a", Name: "A", Price: 3000, Rating: 4.5, MaxGuests: 4, PropertyType: PropertyVilla, Location: "Goa", State: "Goa"},
		{ID: "b", Name: "B", Price: 8000, Rating: 4.9, MaxGuests: 8, PropertyType: PropertyResort, Location: "Manali", State: "Himachal Pradesh"},
	}
}

func catalogListings() []*Listing {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []*Listing{
		{ID: "1", Name: "Mountain Paradise Villa", Location: "Jibhi", State: "Himachal Pradesh", Price: 8500, MaxGuests: 8,
			PropertyType: PropertyVilla, Views: []View{ViewMountain, ViewHimalayas}, Themes: []Theme{ThemeFamilyGetaway, ThemeRomantic},
			Rating: 4.8, ReviewCount: 24, CreatedAt: day(1)},
		{ID: "2", Name: "Crystal Sea Resort", Location: "Agatti", State: "Lakshadweep", Price: 12500, MaxGuests: 4,
			PropertyType: PropertyResort, Views: []View{ViewOcean}, Themes: []Theme{ThemeHoneymoon, ThemeAdventure},
			Rating: 4.9, ReviewCount: 18, CreatedAt: day(2)},
		{ID: "3", Name: "Cliffside Sea Villa", Location: "Varkala", State: "Kerala", Price: 6500, MaxGuests: 6,
			PropertyType: PropertyVilla, Views: []View{ViewOcean}, Themes: []Theme{ThemeAyurvedaRetreat, ThemeRomantic, ThemeEcoFriendly},
			Rating: 4.7, ReviewCount: 31, CreatedAt: day(3)},
		{ID: "4", Name: "Lakeside Mountain Lodge", Location: "Tehri Lake, Garhwal", State: "Uttarakhand", Price: 5200, MaxGuests: 8,
			PropertyType: PropertyCabin, Views: []View{ViewLake, ViewMountain}, Themes: []Theme{ThemeAdventure, ThemeFamilyGetaway, ThemeWorkation},
			Rating: 4.6, ReviewCount: 22, CreatedAt: day(4)},
		{ID: "5", Name: "Riverside Valley Cottage", Location: "Ziro Town", State: "Arunachal Pradesh", Price: 4200, MaxGuests: 6,
			PropertyType: PropertyCottage, Views: []View{ViewRiver, ViewValley}, Themes: []Theme{ThemeOffGrid, ThemeAdventure, ThemeEcoFriendly},
			Rating: 4.5, ReviewCount: 15, CreatedAt: day(5)},
		{ID: "6", Name: "Forest View Safari Lodge", Location: "Jim Corbett", State: "Uttarakhand", Price: 7800, MaxGuests: 8,
			PropertyType: PropertyResort, Views: []View{ViewForest, ViewJungle}, Themes: []Theme{ThemeAdventure, ThemeFamilyGetaway},
			Rating: 4.7, ReviewCount: 33, CreatedAt: day(6)},
		{ID: "7", Name: "Rainforest Treehouse", Location: "Cherrapunji", State: "Meghalaya", Price: 5800, MaxGuests: 4,
			PropertyType: PropertyTreehouse, Views: []View{ViewForest, ViewWaterfall}, Themes: []Theme{ThemeAdventure, ThemeEcoFriendly, ThemeOffGrid},
			Rating: 4.8, ReviewCount: 19, CreatedAt: day(7)},
	}
}

func ids(items []*Listing) []ListingID {
	out := make([]ListingID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestQuery_Scenario(t *testing.T) {
	L := scenarioListings()

	tests := []struct {
		name string
		spec FilterSpec
		want []ListingID
	}{
		{"price range", FilterSpec{PriceRange: &PriceRange{Min: 0, Max: 5000}}, []ListingID{"a"}},
		{"guests threshold", FilterSpec{MaxGuests: 6}, []ListingID{"b"}},
		{"price high", FilterSpec{SortBy: SortPriceHigh}, []ListingID{"b", "a"}},
		{"comma separated location keeps input order", FilterSpec{Location: "manali, goa"}, []ListingID{"a", "b"}},
		{"unmatched property type", FilterSpec{PropertyTypes: []PropertyType{PropertyCabin}}, []ListingID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Query(L, tt.spec)))
		})
	}
}

func TestQuery_Filters(t *testing.T) {
	items := catalogListings()

	tests := []struct {
		name string
		spec FilterSpec
		want []ListingID
	}{
		{"location matches state", FilterSpec{Location: "uttarakhand"}, []ListingID{"4", "6"}},
		{"location matches name", FilterSpec{Location: "TREEHOUSE"}, []ListingID{"7"}},
		{"location substring of area", FilterSpec{Location: "garhwal"}, []ListingID{"4"}},
		{"location blank terms are absent", FilterSpec{Location: " , ,"}, []ListingID{"1", "2", "3", "4", "5", "6", "7"}},
		{"location any term", FilterSpec{Location: "kerala,,meghalaya "}, []ListingID{"3", "7"}},
		{"property types", FilterSpec{PropertyTypes: []PropertyType{PropertyVilla, PropertyCottage}}, []ListingID{"1", "3", "5"}},
		{"views any", FilterSpec{Views: []View{ViewLake, ViewWaterfall}}, []ListingID{"4", "7"}},
		{"themes any", FilterSpec{Themes: []Theme{ThemeHoneymoon, ThemeWorkation}}, []ListingID{"2", "4"}},
		{"unknown theme never matches", FilterSpec{Themes: []Theme{"glamping"}}, []ListingID{}},
		{"guests", FilterSpec{MaxGuests: 7}, []ListingID{"1", "4", "6"}},
		{"price inclusive bounds", FilterSpec{PriceRange: &PriceRange{Min: 5200, Max: 6500}}, []ListingID{"3", "4", "7"}},
		{"conjunction", FilterSpec{Views: []View{ViewOcean}, PropertyTypes: []PropertyType{PropertyVilla}, MaxGuests: 5}, []ListingID{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Query(items, tt.spec)))
		})
	}
}

func TestQuery_LocationTermMatchesSingleField(t *testing.T) {
	items := []*Listing{
		{ID: "1", Name: "Beach Hut", Location: "Goa", State: "Goa"},
		{ID: "2", Name: "Riverside Camp", Location: "Jibhi", State: "Himachal Pradesh"},
	}

	assert.Empty(t, Query(items, FilterSpec{Location: "goa goa"}))
	assert.Empty(t, Query(items, FilterSpec{Location: "jibhi himachal"}))
	assert.Equal(t, []ListingID{"1"}, ids(Query(items, FilterSpec{Location: "GOA"})))
	assert.Equal(t, []ListingID{"2"}, ids(Query(items, FilterSpec{Location: "himachal pradesh"})))
	assert.Equal(t, []ListingID{"1", "2"}, ids(Query(items, FilterSpec{Location: "jibhi, goa"})))
}

func TestQuery_InvertedPriceRangeIsEmpty(t *testing.T) {
	got := Query(catalogListings(), FilterSpec{PriceRange: &PriceRange{Min: 5000, Max: 1000}})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_EmptySpecIsIdentity(t *testing.T) {
	items := catalogListings()
	got := Query(items, FilterSpec{})
	assert.Equal(t, ids(items), ids(got))
	assert.True(t, FilterSpec{}.Empty())
}

func TestQuery_Sorts(t *testing.T) {
	tests := []struct {
		key     SortKey
		ordered func(a, b *Listing) bool
	}{
		{SortPriceLow, func(a, b *Listing) bool { return a.Price <= b.Price }},
		{SortPriceHigh, func(a, b *Listing) bool { return a.Price >= b.Price }},
		{SortRating, func(a, b *Listing) bool { return a.Rating >= b.Rating }},
		{SortPopular, func(a, b *Listing) bool { return a.ReviewCount >= b.ReviewCount }},
		{SortNewest, func(a, b *Listing) bool { return !a.CreatedAt.Before(b.CreatedAt) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := Query(catalogListings(), FilterSpec{SortBy: tt.key})
			require.Len(t, got, 7)
			for i := 1; i < len(got); i++ {
				assert.Truef(t, tt.ordered(got[i-1], got[i]), "%s before %s", got[i-1].ID, got[i].ID)
			}
		})
	}
}

func TestQuery_SortIsStableForEqualKeys(t *testing.T) {
	// 3 and 6 share rating 4.7, 1 and 7 share 4.8.
	got := Query(catalogListings(), FilterSpec{SortBy: SortRating})
	assert.Equal(t, []ListingID{"2", "1", "7", "3", "6", "4", "5"}, ids(got))
}

func TestQuery_UnparseableCreatedAtSortsLast(t *testing.T) {
	items := []*Listing{
		{ID: "broken", CreatedAt: ParseTimestamp("not a date")},
		{ID: "old", CreatedAt: ParseTimestamp("2023-05-01T00:00:00Z")},
		{ID: "new", CreatedAt: ParseTimestamp("2024-05-01T00:00:00Z")},
	}
	assert.Equal(t, []ListingID{"new", "old", "broken"}, ids(Query(items, FilterSpec{SortBy: SortNewest})))
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	items := catalogListings()
	before := ids(items)
	prices := make([]float64, len(items))
	for i, item := range items {
		prices[i] = item.Price
	}

	_ = Query(items, FilterSpec{SortBy: SortPriceLow, Views: []View{ViewOcean, ViewForest}})

	assert.Equal(t, before, ids(items))
	for i, item := range items {
		assert.Equal(t, prices[i], item.Price)
	}
}

func TestQuery_IdempotentAndComplete(t *testing.T) {
	items := catalogListings()
	spec := FilterSpec{
		Location:   "pradesh, uttarakhand",
		Themes:     []Theme{ThemeAdventure, ThemeFamilyGetaway},
		PriceRange: &PriceRange{Min: 4000, Max: 9000},
		SortBy:     SortPopular,
	}

	first := Query(items, spec)
	second := Query(items, spec)
	assert.Equal(t, ids(first), ids(second))

	returned := make(map[ListingID]bool, len(first))
	for _, listing := range first {
		returned[listing.ID] = true
		assert.True(t, spec.Matches(listing))
	}
	for _, listing := range items {
		assert.Equal(t, spec.Matches(listing), returned[listing.ID], "listing %s", listing.ID)
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSortKey(" PRICE_LOW "))
	assert.Equal(t, SortNewest, ParseSortKey("newest"))
	assert.Equal(t, SortNone, ParseSortKey("cheapest"))
	assert.Equal(t, SortNone, ParseSortKey(""))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []View{ViewOcean, ViewLake}, ParseViews([]string{" Ocean", "lake", "ocean", ""}))
	assert.Nil(t, ParseThemes([]string{" ", ""}))
	assert.Equal(t, []PropertyType{"igloo"}, ParsePropertyTypes([]string{"Igloo"}))
}
