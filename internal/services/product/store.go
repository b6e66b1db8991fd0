package product

import (
	"context"

	"restaurant-backend/internal/models"
)

// Store provides menu and inventory persistence
type Store interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (int, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int) error

	GetAllIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetAvailableIngredients(ctx context.Context) ([]models.Ingredient, error)
	ReplenishIngredient(ctx context.Context, name string, delta int) error
	IngredientExists(ctx context.Context, id int) (bool, error)
}
