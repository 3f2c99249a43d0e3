package listings

import "strings"

// PropertyType is the single-valued category of a stay.
type PropertyType string

const (
	PropertyVilla     PropertyType = "villa"
	PropertyTent      PropertyType = "tent"
	PropertyHomestay  PropertyType = "homestay"
	PropertyCabin     PropertyType = "cabin"
	PropertyTreehouse PropertyType = "treehouse"
	PropertyHouseboat PropertyType = "houseboat"
	PropertyCottage   PropertyType = "cottage"
	PropertyResort    PropertyType = "resort"
)

// View is a scenery tag; a listing can carry several.
type View string

const (
	ViewMountain  View = "mountain"
	ViewRiver     View = "river"
	ViewJungle    View = "jungle"
	ViewOcean     View = "ocean"
	ViewVillage   View = "village"
	ViewForest    View = "forest"
	ViewLake      View = "lake"
	ViewValley    View = "valley"
	ViewHimalayas View = "himalayas"
	ViewWaterfall View = "waterfall"
	ViewFieldview View = "fieldview"
)

// Theme is a trip-purpose tag; a listing can carry several.
type Theme string

const (
	ThemeRomantic          Theme = "romantic"
	ThemeFamily            Theme = "family"
	ThemeWorkation         Theme = "workation"
	ThemeOffGrid           Theme = "off-grid"
	ThemeAdventure         Theme = "adventure"
	ThemeEcoFriendly       Theme = "eco-friendly"
	ThemeAyurvedaRetreat   Theme = "ayurveda-retreat"
	ThemeHoneymoon         Theme = "honeymoon"
	ThemeFamilyGetaway     Theme = "family-getaway"
	ThemeCorporateTraining Theme = "corporate-training"
	ThemeSchoolEducation   Theme = "school-education-stays"
)

// PriceUnit tells what the listed price covers.
type PriceUnit string

const (
	PerNight  PriceUnit = "night"
	PerPerson PriceUnit = "person"
	PerGroup  PriceUnit = "group"
)

var (
	knownPropertyTypes = map[PropertyType]struct{}{
		PropertyVilla: {}, PropertyTent: {}, PropertyHomestay: {}, PropertyCabin: {},
		PropertyTreehouse: {}, PropertyHouseboat: {}, PropertyCottage: {}, PropertyResort: {},
	}
	knownViews = map[View]struct{}{
		ViewMountain: {}, ViewRiver: {}, ViewJungle: {}, ViewOcean: {}, ViewVillage: {}, ViewForest: {},
		ViewLake: {}, ViewValley: {}, ViewHimalayas: {}, ViewWaterfall: {}, ViewFieldview: {},
	}
	knownThemes = map[Theme]struct{}{
		ThemeRomantic: {}, ThemeFamily: {}, ThemeWorkation: {}, ThemeOffGrid: {}, ThemeAdventure: {},
		ThemeEcoFriendly: {}, ThemeAyurvedaRetreat: {}, ThemeHoneymoon: {}, ThemeFamilyGetaway: {},
		ThemeCorporateTraining: {}, ThemeSchoolEducation: {},
	}
	knownPriceUnits = map[PriceUnit]struct{}{PerNight: {}, PerPerson: {}, PerGroup: {}}
)

func (t PropertyType) Known() bool {
	_, ok := knownPropertyTypes[t]
	return ok
}

func (v View) Known() bool {
	_, ok := knownViews[v]
	return ok
}

func (t Theme) Known() bool {
	_, ok := knownThemes[t]
	return ok
}

func (u PriceUnit) Known() bool {
	_, ok := knownPriceUnits[u]
	return ok
}

// ParsePropertyTypes lowercases and de-duplicates raw values. Unknown values are kept
// so that a filter on them simply matches nothing.
func ParsePropertyTypes(raw []string) []PropertyType {
	return parseTags(raw, func(s string) PropertyType { return PropertyType(s) })
}

func ParseViews(raw []string) []View {
	return parseTags(raw, func(s string) View { return View(s) })
}

func ParseThemes(raw []string) []Theme {
	return parseTags(raw, func(s string) Theme { return Theme(s) })
}

func parseTags[T ~string](raw []string, conv func(string) T) []T {
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, conv(value))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
