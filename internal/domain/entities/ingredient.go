package entities

import "strings"

// Category is the grocery aisle an ingredient is shopped from.
type Category string

const (
	CategoryProduce     Category = "Produce"
	CategoryMeatSeafood Category = "Meat & Seafood"
	CategoryDeli        Category = "Deli"
	CategoryBakery      Category = "Bakery"
	CategoryFrozen      Category = "Frozen"
	CategoryPantry      Category = "Pantry"
	CategoryDairy       Category = "Dairy"
	CategoryBeverages   Category = "Beverages"
)

// Categories returns the closed set of categories in display order.
func Categories() []Category {
	return []Category{
		CategoryProduce,
		CategoryMeatSeafood,
		CategoryDeli,
		CategoryBakery,
		CategoryFrozen,
		CategoryPantry,
		CategoryDairy,
		CategoryBeverages,
	}
}

// IsValid checks if the category is one of the defined constants.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProduce, CategoryMeatSeafood, CategoryDeli, CategoryBakery,
		CategoryFrozen, CategoryPantry, CategoryDairy, CategoryBeverages:
		return true
	}
	return false
}

// ParseCategory maps a loosely formatted category string ("meat and seafood",
// "MEAT&SEAFOOD", "dairy") onto the closed set.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " and ", "&")
	key = strings.ReplaceAll(key, " ", "")
	switch key {
	case "produce":
		return CategoryProduce, true
	case "meat&seafood", "meat/seafood", "meatseafood":
		return CategoryMeatSeafood, true
	case "deli":
		return CategoryDeli, true
	case "bakery":
		return CategoryBakery, true
	case "frozen":
		return CategoryFrozen, true
	case "pantry":
		return CategoryPantry, true
	case "dairy":
		return CategoryDairy, true
	case "beverages", "beverage":
		return CategoryBeverages, true
	}
	return "", false
}

// Ingredient is a single shopping-ready line of a recipe.
type Ingredient struct {
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	Unit     string   `json:"unit"` // canonical plural ("cups", "ounces") or "" for count items
	Category Category `json:"category"`
	Checked  bool     `json:"checked"`
	Removed  bool     `json:"removed"`
}
