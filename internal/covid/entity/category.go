package entity

// Category is one counter of a CountryStat drawn as a bar.
type Category string

const (
	CategoryConfirmed Category = "confirmed"
	CategoryDeaths    Category = "deaths"
	CategoryRecovered Category = "recovered"
)

// DefaultCategories is the bar set of a comparison chart.
//
//nolint:gochecknoglobals // read-only
var DefaultCategories = []Category{CategoryConfirmed, CategoryDeaths, CategoryRecovered}

// Label is the legend text of the category.
func (c Category) Label() string {
	switch c {
	case CategoryConfirmed:
		return "Confirmed"
	case CategoryDeaths:
		return "Deaths"
	case CategoryRecovered:
		return "Recovered"
	default:
		return string(c)
	}
}

// Value reads the category's counter from s.
func (c Category) Value(s CountryStat) int64 {
	switch c {
	case CategoryConfirmed:
		return s.Confirmed
	case CategoryDeaths:
		return s.Deaths
	case CategoryRecovered:
		return s.Recovered
	default:
		return 0
	}
}
