package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/database"
	"restaurant-backend/internal/models"
)

// PgStore implements Store over PostgreSQL
type PgStore struct {
	db *database.DB
}

// NewPgStore creates a PostgreSQL-backed product store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.Query(ctx, database.GetAllProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PgStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(ctx, database.GetProductSQL, id).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	rows, err := s.db.Query(ctx, database.GetProductRecipeSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.RecipeItem
		if err := rows.Scan(&item.IngredientID, &item.IngredientName, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan recipe item: %w", err)
		}
		p.Recipe = append(p.Recipe, item)
	}
	return &p, rows.Err()
}

// CreateProduct inserts the product and its recipe links in one transaction
func (s *PgStore) CreateProduct(ctx context.Context, p *models.Product) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	if err := tx.QueryRow(ctx, database.InsertProductSQL, p.Name, p.Price).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	for _, item := range p.Recipe {
		if _, err := tx.Exec(ctx, database.InsertProductIngredientSQL, id, item.IngredientID, item.Count); err != nil {
			return 0, fmt.Errorf("failed to insert recipe item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// UpdateProduct updates the product and replaces its whole recipe in one
// transaction. There is no partial recipe update.
func (s *PgStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, database.UpdateProductSQL, p.Name, p.Price, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", p.ID)
	}

	if _, err := tx.Exec(ctx, database.DeleteProductRecipeSQL, p.ID); err != nil {
		return fmt.Errorf("failed to clear recipe: %w", err)
	}

	for _, item := range p.Recipe {
		if _, err := tx.Exec(ctx, database.InsertProductIngredientSQL, p.ID, item.IngredientID, item.Count); err != nil {
			return fmt.Errorf("failed to insert recipe item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PgStore) DeleteProduct(ctx context.Context, id int) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

func (s *PgStore) GetAllIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.queryIngredients(ctx, database.GetAllIngredientsSQL)
}

func (s *PgStore) GetAvailableIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.queryIngredients(ctx, database.GetAvailableIngredientsSQL)
}

func (s *PgStore) ReplenishIngredient(ctx context.Context, name string, delta int) error {
	if err := s.db.Exec(ctx, database.ReplenishIngredientSQL, name, delta); err != nil {
		return fmt.Errorf("failed to replenish ingredient %q: %w", name, err)
	}
	return nil
}

func (s *PgStore) IngredientExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, database.IngredientExistsSQL, id).Scan(&exists)
	return exists, err
}

func (s *PgStore) queryIngredients(ctx context.Context, sql string) ([]models.Ingredient, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}
