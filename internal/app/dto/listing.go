package dto

import (
	"math"
	"time"

	domainlistings "vibestays/internal/domain/listings"
)

// ListingCard is the catalog tile of a listing.
type ListingCard struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	State            string    `json:"state"`
	Price            float64   `json:"price"`
	PriceUnit        string    `json:"price_unit"`
	FormattedPrice   string    `json:"formatted_price"`
	CoverImage       string    `json:"cover_image,omitempty"`
	Images           []string  `json:"images"`
	ShortDescription string    `json:"short_description,omitempty"`
	MaxGuests        int       `json:"max_guests"`
	Bedrooms         int       `json:"bedrooms"`
	Bathrooms        int       `json:"bathrooms"`
	PropertyType     string    `json:"property_type"`
	Views            []string  `json:"views"`
	Themes           []string  `json:"themes"`
	Rating           float64   `json:"rating"`
	ReviewCount      int       `json:"review_count"`
	Featured         bool      `json:"featured"`
	Verified         bool      `json:"verified"`
	CreatedAt        time.Time `json:"created_at"`
}

type ListingCatalog struct {
	Items   []ListingCard   `json:"items"`
	Filters CatalogFilters  `json:"filters"`
	Meta    CatalogMetadata `json:"meta"`
}

// CatalogFilters echoes the filters that were applied after parsing.
type CatalogFilters struct {
	Location      string   `json:"location,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	Views         []string `json:"views,omitempty"`
	Themes        []string `json:"themes,omitempty"`
	MaxGuests     int      `json:"max_guests,omitempty"`
	PriceMin      *float64 `json:"price_min,omitempty"`
	PriceMax      *float64 `json:"price_max,omitempty"`
	Sort          string   `json:"sort,omitempty"`
}

// CatalogMetadata carries the match count shown as "N properties found". Total
// counts every match; Count is the size of the returned page.
type CatalogMetadata struct {
	Total  int `json:"total"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ContactLinks are the booking call-to-actions of a listing page.
type ContactLinks struct {
	Phone       string `json:"phone,omitempty"`
	PhoneURL    string `json:"phone_url,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
	Message     string `json:"message"`
}

type ListingDetail struct {
	ListingCard
	Description       string       `json:"description,omitempty"`
	Videos            []string     `json:"videos"`
	SeasonalImages    []string     `json:"seasonal_images"`
	Amenities         []string     `json:"amenities"`
	NearbyExperiences []string     `json:"nearby_experiences"`
	LocalTips         []string     `json:"local_tips"`
	HostName          string       `json:"host_name,omitempty"`
	Contact           ContactLinks `json:"contact"`
	Reviews           []Review     `json:"reviews,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type ListingCollection struct {
	Items []ListingDetail `json:"items"`
	Total int             `json:"total"`
}

func MapListingCard(listing *domainlistings.Listing) ListingCard {
	if listing == nil {
		return ListingCard{}
	}
	card := ListingCard{
		ID:               string(listing.ID),
		Name:             listing.Name,
		Location:         listing.Location,
		State:            listing.State,
		Price:            listing.Price,
		PriceUnit:        string(listing.PriceUnit),
		FormattedPrice:   listing.FormattedPrice(),
		Images:           nonNil(listing.Images),
		ShortDescription: listing.ShortDescription,
		MaxGuests:        listing.MaxGuests,
		Bedrooms:         listing.Bedrooms,
		Bathrooms:        listing.Bathrooms,
		PropertyType:     string(listing.PropertyType),
		Views:            tagStrings(listing.Views),
		Themes:           tagStrings(listing.Themes),
		Rating:           listing.Rating,
		ReviewCount:      listing.ReviewCount,
		Featured:         listing.Featured,
		Verified:         listing.Verified,
		CreatedAt:        listing.CreatedAt,
	}
	if len(listing.Images) > 0 {
		card.CoverImage = listing.Images[0]
	}
	return card
}

// MapListingDetail builds the listing page payload. reviews should already be
// limited to approved ones for public callers.
func MapListingDetail(listing *domainlistings.Listing, reviews []Review) ListingDetail {
	if listing == nil {
		return ListingDetail{}
	}
	return ListingDetail{
		ListingCard:       MapListingCard(listing),
		Description:       listing.Description,
		Videos:            nonNil(listing.Videos),
		SeasonalImages:    nonNil(listing.SeasonalImages),
		Amenities:         nonNil(listing.Amenities),
		NearbyExperiences: nonNil(listing.NearbyExperiences),
		LocalTips:         nonNil(listing.LocalTips),
		HostName:          listing.HostName,
		Contact: ContactLinks{
			Phone:       listing.ContactNumber,
			PhoneURL:    listing.PhoneURL(),
			WhatsApp:    listing.WhatsAppNumber,
			WhatsAppURL: listing.WhatsAppURL(),
			Message:     listing.InquiryMessage(),
		},
		Reviews:   reviews,
		UpdatedAt: listing.UpdatedAt,
	}
}

func MapCatalogFilters(spec domainlistings.FilterSpec) CatalogFilters {
	filters := CatalogFilters{
		Location:      spec.Location,
		PropertyTypes: tagStrings(spec.PropertyTypes),
		Views:         tagStrings(spec.Views),
		Themes:        tagStrings(spec.Themes),
		Sort:          string(spec.SortBy),
	}
	if spec.MaxGuests > 0 {
		filters.MaxGuests = spec.MaxGuests
	}
	if spec.PriceRange != nil {
		lo, hi := spec.PriceRange.Min, spec.PriceRange.Max
		filters.PriceMin = &lo
		if !math.IsInf(hi, 1) {
			filters.PriceMax = &hi
		}
	}
	return filters
}

func tagStrings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
