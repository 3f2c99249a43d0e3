package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibestays/internal/domain/shared/events"
)

var (
	ErrNotFound            = errors.New("listings: not found")
	ErrIDRequired          = errors.New("listings: id is required")
	ErrNameRequired        = errors.New("listings: name is required")
	ErrLocationRequired    = errors.New("listings: location and state are required")
	ErrNegativePrice       = errors.New("listings: price must be non-negative")
	ErrGuestsLimit         = errors.New("listings: max guests must be at least 1")
	ErrUnknownPriceUnit    = errors.New("listings: unknown price unit")
	ErrUnknownPropertyType = errors.New("listings: unknown property type")
	ErrUnknownView         = errors.New("listings: unknown view")
	ErrUnknownTheme        = errors.New("listings: unknown theme")
	ErrRatingRange         = errors.New("listings: rating must be between 0 and 5")
)

type ListingID string

// Listing is a single stay shown in the catalog.
type Listing struct {
	ID                ListingID
	Name              string
	Location          string
	State             string
	Price             float64
	PriceUnit         PriceUnit
	Images            []string
	Videos            []string
	SeasonalImages    []string
	Description       string
	ShortDescription  string
	MaxGuests         int
	Bedrooms          int
	Bathrooms         int
	PropertyType      PropertyType
	Views             []View
	Themes            []Theme
	Amenities         []string
	NearbyExperiences []string
	LocalTips         []string
	HostName          string
	ContactNumber     string
	WhatsAppNumber    string
	Rating            float64
	ReviewCount       int
	Featured          bool
	Verified          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	events.EventRecorder
}

// ListingRepository is the data-source collaborator of the catalog.
type ListingRepository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	// All returns the full snapshot ordered by creation time, oldest first.
	All(ctx context.Context) ([]*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
}

// Attributes are the admin-editable fields of a listing. Rating and review count are
// derived from reviews and never come from a form.
type Attributes struct {
	Name              string
	Location          string
	State             string
	Price             float64
	PriceUnit         PriceUnit
	Images            []string
	Videos            []string
	SeasonalImages    []string
	Description       string
	ShortDescription  string
	MaxGuests         int
	Bedrooms          int
	Bathrooms         int
	PropertyType      PropertyType
	Views             []View
	Themes            []Theme
	Amenities         []string
	NearbyExperiences []string
	LocalTips         []string
	HostName          string
	ContactNumber     string
	WhatsAppNumber    string
	Featured          bool
	Verified          bool
}

// Validate checks the invariants every stored listing must satisfy.
func (a Attributes) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(a.Location) == "" || strings.TrimSpace(a.State) == "" {
		return ErrLocationRequired
	}
	if a.Price < 0 {
		return ErrNegativePrice
	}
	if a.MaxGuests < 1 {
		return ErrGuestsLimit
	}
	if !a.PriceUnit.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownPriceUnit, a.PriceUnit)
	}
	if !a.PropertyType.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownPropertyType, a.PropertyType)
	}
	for _, v := range a.Views {
		if !v.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownView, v)
		}
	}
	for _, t := range a.Themes {
		if !t.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownTheme, t)
		}
	}
	return nil
}

func NewListing(id ListingID, attrs Attributes, now time.Time) (*Listing, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrIDRequired
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	now = now.UTC()
	listing := &Listing{ID: id, CreatedAt: now}
	listing.apply(attrs, now)
	listing.Record(ListingCreatedEvent{ListingID: id, Name: listing.Name, At: now})
	return listing, nil
}

// Update replaces the admin-editable attributes.
func (l *Listing) Update(attrs Attributes, now time.Time) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	now = now.UTC()
	l.apply(attrs, now)
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: now})
	return nil
}

// MarkDeleted records the deletion; the repository removes the row.
func (l *Listing) MarkDeleted(now time.Time) {
	l.Record(ListingDeletedEvent{ListingID: l.ID, At: now.UTC()})
}

// UpdateRating stores review aggregates computed from approved reviews.
func (l *Listing) UpdateRating(average float64, count int, now time.Time) error {
	if average < 0 || average > 5 {
		return ErrRatingRange
	}
	if count < 0 {
		count = 0
	}
	l.Rating = average
	l.ReviewCount = count
	l.UpdatedAt = now.UTC()
	return nil
}

// Attributes returns the editable part of the listing.
func (l *Listing) Attributes() Attributes {
	return Attributes{
		Name:              l.Name,
		Location:          l.Location,
		State:             l.State,
		Price:             l.Price,
		PriceUnit:         l.PriceUnit,
		Images:            cloneStrings(l.Images),
		Videos:            cloneStrings(l.Videos),
		SeasonalImages:    cloneStrings(l.SeasonalImages),
		Description:       l.Description,
		ShortDescription:  l.ShortDescription,
		MaxGuests:         l.MaxGuests,
		Bedrooms:          l.Bedrooms,
		Bathrooms:         l.Bathrooms,
		PropertyType:      l.PropertyType,
		Views:             append([]View(nil), l.Views...),
		Themes:            append([]Theme(nil), l.Themes...),
		Amenities:         cloneStrings(l.Amenities),
		NearbyExperiences: cloneStrings(l.NearbyExperiences),
		LocalTips:         cloneStrings(l.LocalTips),
		HostName:          l.HostName,
		ContactNumber:     l.ContactNumber,
		WhatsAppNumber:    l.WhatsAppNumber,
		Featured:          l.Featured,
		Verified:          l.Verified,
	}
}

func (l *Listing) apply(a Attributes, now time.Time) {
	l.Name = strings.TrimSpace(a.Name)
	l.Location = strings.TrimSpace(a.Location)
	l.State = strings.TrimSpace(a.State)
	l.Price = a.Price
	l.PriceUnit = a.PriceUnit
	l.Images = cloneStrings(a.Images)
	l.Videos = cloneStrings(a.Videos)
	l.SeasonalImages = cloneStrings(a.SeasonalImages)
	l.Description = strings.TrimSpace(a.Description)
	l.ShortDescription = strings.TrimSpace(a.ShortDescription)
	l.MaxGuests = a.MaxGuests
	l.Bedrooms = a.Bedrooms
	l.Bathrooms = a.Bathrooms
	l.PropertyType = a.PropertyType
	l.Views = append([]View(nil), a.Views...)
	l.Themes = append([]Theme(nil), a.Themes...)
	l.Amenities = cloneStrings(a.Amenities)
	l.NearbyExperiences = cloneStrings(a.NearbyExperiences)
	l.LocalTips = cloneStrings(a.LocalTips)
	l.HostName = strings.TrimSpace(a.HostName)
	l.ContactNumber = strings.TrimSpace(a.ContactNumber)
	l.WhatsAppNumber = strings.TrimSpace(a.WhatsAppNumber)
	l.Featured = a.Featured
	l.Verified = a.Verified
	l.UpdatedAt = now
}

// ParseTimestamp reads an RFC 3339 instant as stored by the managed backend. Values
// that cannot be parsed map to the zero instant, which sorts last under "newest".
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
