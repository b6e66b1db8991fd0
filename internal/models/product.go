package models

import "github.com/shopspring/decimal"

// Ingredient is a named stock position in the inventory ledger.
// Stock is an integer count and never goes negative.
type Ingredient struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Stock int    `json:"count" db:"stock"`
}

// RecipeItem is one (ingredient, per-unit count) pair of a product's recipe
type RecipeItem struct {
	IngredientID   int    `json:"ingredient_id" db:"ingredient_id"`
	IngredientName string `json:"name,omitempty" db:"name"`
	Count          int    `json:"count" db:"count"`
}

// Product is a menu position with its recipe
type Product struct {
	ID     int             `json:"id" db:"id"`
	Name   string          `json:"name" db:"name"`
	Price  decimal.Decimal `json:"-" db:"price"`
	Recipe []RecipeItem    `json:"ingredients,omitempty"`
}

// ProductResponse represents a menu position over the wire
type ProductResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ProductToResponse maps a product to its wire shape
func ProductToResponse(p *Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2)}
}

// ProductRequest represents the request to add or edit a product
type ProductRequest struct {
	Name        string              `json:"name"`
	Price       string              `json:"price"`
	Ingredients []ProductIngredient `json:"ingredients"`
}

// ProductIngredient is one recipe entry in a product request
type ProductIngredient struct {
	IngredientID int `json:"id"`
	Count        int `json:"count"`
}

// ReplenishRequest represents the request to replenish ingredient stock
type ReplenishRequest struct {
	Names  []string `json:"names"`
	Counts []int    `json:"counts"`
}
