package product

import (
	"context"

	"github.com/shopspring/decimal"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Service implements the menu (recipe index) and the inventory ledger's
// replenishment side. Consumption happens inside the order transaction.
type Service struct {
	store  Store
	logger *logger.Logger
}

// NewService creates a new product service
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// AddProduct creates a menu position together with its recipe
func (s *Service) AddProduct(ctx context.Context, req *models.ProductRequest, requestID string) (*models.Product, error) {
	p, err := s.productFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	s.logger.Info("product_added", requestID, "Product added",
		"product_id", id, "name", p.Name)

	return p, nil
}

// EditProduct updates a menu position, replacing its whole recipe
func (s *Service) EditProduct(ctx context.Context, id int, req *models.ProductRequest, requestID string) error {
	p, err := s.productFromRequest(ctx, req)
	if err != nil {
		return err
	}
	p.ID = id

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}

	s.logger.Info("product_edited", requestID, "Product edited",
		"product_id", id, "name", p.Name)

	return nil
}

// DeleteProduct removes a menu position
func (s *Service) DeleteProduct(ctx context.Context, id int, requestID string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product_deleted", requestID, "Product deleted", "product_id", id)
	return nil
}

// GetAllProducts returns the menu
func (s *Service) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAllProducts(ctx)
}

// GetProduct returns one menu position with its recipe
func (s *Service) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ReplenishIngredients adds stock by ingredient name, creating unknown
// ingredients with the delivered amount
func (s *Service) ReplenishIngredients(ctx context.Context, req *models.ReplenishRequest, requestID string) error {
	if len(req.Names) == 0 || len(req.Names) != len(req.Counts) {
		return apperr.Validation("names and counts must be non-empty and of equal length")
	}
	for i, count := range req.Counts {
		if count < 1 {
			return apperr.Validation("count for %q must be at least 1", req.Names[i])
		}
		if req.Names[i] == "" {
			return apperr.Validation("ingredient name must not be empty")
		}
	}

	for i, name := range req.Names {
		if err := s.store.ReplenishIngredient(ctx, name, req.Counts[i]); err != nil {
			return err
		}
		s.logger.Info("ingredient_replenished", requestID, "Ingredient replenished",
			"name", name, "delta", req.Counts[i])
	}
	return nil
}

// GetAllIngredients returns every ledger position
func (s *Service) GetAllIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.store.GetAllIngredients(ctx)
}

// GetAvailableIngredients returns ledger positions with stock on hand
func (s *Service) GetAvailableIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.store.GetAvailableIngredients(ctx)
}

// productFromRequest validates the request and builds the product with its
// recipe
func (s *Service) productFromRequest(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, apperr.Validation("product name is required")
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, apperr.Validation("invalid price %q", req.Price)
	}

	p := &models.Product{Name: req.Name, Price: price}
	for _, entry := range req.Ingredients {
		if entry.Count < 1 {
			return nil, apperr.Validation("ingredient %d: count must be at least 1", entry.IngredientID)
		}

		exists, err := s.store.IngredientExists(ctx, entry.IngredientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("ingredient", entry.IngredientID)
		}

		p.Recipe = append(p.Recipe, models.RecipeItem{
			IngredientID: entry.IngredientID,
			Count:        entry.Count,
		})
	}
	return p, nil
}
