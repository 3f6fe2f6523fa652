package enums

import "fmt"

// MenuCategory groups menu items for display and for ticket routing.
type MenuCategory string

const (
	MenuCategoryAppetizer MenuCategory = "appetizer"
	MenuCategoryEntree    MenuCategory = "entree"
	MenuCategoryDessert   MenuCategory = "dessert"
	MenuCategoryBeverage  MenuCategory = "beverage"
	MenuCategoryCocktail  MenuCategory = "cocktail"
	MenuCategoryBeer      MenuCategory = "beer"
	MenuCategoryWine      MenuCategory = "wine"
)

var validMenuCategories = []MenuCategory{
	MenuCategoryAppetizer,
	MenuCategoryEntree,
	MenuCategoryDessert,
	MenuCategoryBeverage,
	MenuCategoryCocktail,
	MenuCategoryBeer,
	MenuCategoryWine,
}

// String implements fmt.Stringer.
func (m MenuCategory) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MenuCategory.
func (m MenuCategory) IsValid() bool {
	for _, candidate := range validMenuCategories {
		if candidate == m {
			return true
		}
	}
	return false
}

// Station returns the prep station that serves this category.
func (m MenuCategory) Station() TicketStation {
	switch m {
	case MenuCategoryCocktail, MenuCategoryBeer, MenuCategoryWine:
		return TicketStationBar
	default:
		return TicketStationKitchen
	}
}

// ParseMenuCategory converts raw input into a MenuCategory.
func ParseMenuCategory(value string) (MenuCategory, error) {
	for _, candidate := range validMenuCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid menu category %q", value)
}
