package enums

import "strings"

// MenuCategory groups menu items on the storefront and in production reports.
type MenuCategory string

const (
	MenuCategoryOnRice   MenuCategory = "On Rice"
	MenuCategoryMaki     MenuCategory = "Maki"
	MenuCategoryNigiri   MenuCategory = "Nigiri"
	MenuCategorySashimi  MenuCategory = "Sashimi"
	MenuCategoryPlatters MenuCategory = "Platters"
	MenuCategoryOther    MenuCategory = "Other"
)

// MenuCategoryOrder is the display order used by the kitchen report.
var MenuCategoryOrder = []MenuCategory{
	MenuCategoryOnRice,
	MenuCategoryMaki,
	MenuCategoryNigiri,
	MenuCategorySashimi,
	MenuCategoryPlatters,
	MenuCategoryOther,
}

func (c MenuCategory) String() string {
	return string(c)
}

func (c MenuCategory) IsValid() bool {
	for _, candidate := range MenuCategoryOrder {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeMenuCategory maps a stored category onto a known one. Matching is
// case-insensitive; anything unrecognised lands in Other.
func NormalizeMenuCategory(value string) MenuCategory {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range MenuCategoryOrder {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate
		}
	}
	return MenuCategoryOther
}

// Rank returns the display position of c, with unknown categories last.
func (c MenuCategory) Rank() int {
	for i, candidate := range MenuCategoryOrder {
		if candidate == c {
			return i
		}
	}
	return len(MenuCategoryOrder)
}
