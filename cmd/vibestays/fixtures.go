package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	listingapp "vibestays/internal/app/handlers/listings"
	domainlistings "vibestays/internal/domain/listings"
)

// listingFixture mirrors the property JSON exported by the old storefront.
type listingFixture struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	State             string   `json:"state"`
	Price             float64  `json:"price"`
	PriceUnit         string   `json:"priceUnit"`
	Images            []string `json:"images"`
	Videos            []string `json:"videos"`
	SeasonalImages    []string `json:"seasonalImages"`
	Description       string   `json:"description"`
	ShortDescription  string   `json:"shortDescription"`
	MaxGuests         int      `json:"maxGuests"`
	Bedrooms          int      `json:"bedrooms"`
	Bathrooms         int      `json:"bathrooms"`
	PropertyType      string   `json:"propertyType"`
	Views             []string `json:"views"`
	Themes            []string `json:"themes"`
	Amenities         []string `json:"amenities"`
	NearbyExperiences []string `json:"nearbyExperiences"`
	LocalTips         []string `json:"localTips"`
	HostName          string   `json:"hostName"`
	ContactNumber     string   `json:"contactNumber"`
	WhatsAppNumber    string   `json:"whatsappNumber"`
	Rating            float64  `json:"rating"`
	ReviewCount       int      `json:"reviewCount"`
	Featured          bool     `json:"featured"`
	Verified          bool     `json:"verified"`
	CreatedAt         string   `json:"createdAt"`
}

func loadFixtures(path string) ([]listingapp.ImportedListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return decodeFixtures(data)
}

func decodeFixtures(data []byte) ([]listingapp.ImportedListing, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	items := make([]listingapp.ImportedListing, 0, len(fixtures))
	for _, fx := range fixtures {
		items = append(items, fx.imported())
	}
	return items, nil
}

func (fx listingFixture) imported() listingapp.ImportedListing {
	unit := strings.ToLower(strings.TrimSpace(fx.PriceUnit))
	if unit == "" {
		unit = string(domainlistings.PerNight)
	}
	return listingapp.ImportedListing{
		ID: strings.TrimSpace(fx.ID),
		Attributes: domainlistings.Attributes{
			Name:              fx.Name,
			Location:          fx.Location,
			State:             fx.State,
			Price:             fx.Price,
			PriceUnit:         domainlistings.PriceUnit(unit),
			Images:            fx.Images,
			Videos:            fx.Videos,
			SeasonalImages:    fx.SeasonalImages,
			Description:       fx.Description,
			ShortDescription:  fx.ShortDescription,
			MaxGuests:         fx.MaxGuests,
			Bedrooms:          fx.Bedrooms,
			Bathrooms:         fx.Bathrooms,
			PropertyType:      domainlistings.PropertyType(strings.ToLower(strings.TrimSpace(fx.PropertyType))),
			Views:             domainlistings.ParseViews(fx.Views),
			Themes:            domainlistings.ParseThemes(fx.Themes),
			Amenities:         fx.Amenities,
			NearbyExperiences: fx.NearbyExperiences,
			LocalTips:         fx.LocalTips,
			HostName:          fx.HostName,
			ContactNumber:     fx.ContactNumber,
			WhatsAppNumber:    fx.WhatsAppNumber,
			Featured:          fx.Featured,
			Verified:          fx.Verified,
		},
		Rating:      fx.Rating,
		ReviewCount: fx.ReviewCount,
		CreatedAt:   domainlistings.ParseTimestamp(fx.CreatedAt),
	}
}
