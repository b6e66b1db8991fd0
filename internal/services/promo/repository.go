package promo

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

// NewPgStore creates a PostgreSQL-backed promo store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) CreatePromo(ctx context.Context, p *models.Promo) (int, error) {
	var id int
	if err := s.db.QueryRow(ctx, database.InsertPromoSQL, p.Text, p.Content).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert promo: %w", err)
	}
	return id, nil
}

func (s *PgStore) GetAllPromos(ctx context.Context) ([]models.Promo, error) {
	rows, err := s.db.Query(ctx, database.GetAllPromosSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query promos: %w", err)
	}
	defer rows.Close()

	var promos []models.Promo
	for rows.Next() {
		var p models.Promo
		if err := rows.Scan(&p.ID, &p.Text, &p.Content); err != nil {
			return nil, fmt.Errorf("failed to scan promo: %w", err)
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

func (s *PgStore) GetLastPromo(ctx context.Context) (*models.Promo, error) {
	var p models.Promo
	err := s.db.QueryRow(ctx, database.GetLastPromoSQL).Scan(&p.ID, &p.Text, &p.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query last promo: %w", err)
	}
	return &p, nil
}

func (s *PgStore) GetPromo(ctx context.Context, id int) (*models.Promo, error) {
	var p models.Promo
	err := s.db.QueryRow(ctx, database.GetPromoSQL, id).Scan(&p.ID, &p.Text, &p.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("promo", id)
		}
		return nil, fmt.Errorf("failed to query promo: %w", err)
	}
	return &p, nil
}

func (s *PgStore) UpdatePromo(ctx context.Context, p *models.Promo) error {
	tag, err := s.db.Pool.Exec(ctx, database.UpdatePromoSQL, p.Text, p.Content, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update promo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("promo", p.ID)
	}
	return nil
}

func (s *PgStore) DeletePromo(ctx context.Context, id int) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeletePromoSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("promo", id)
	}
	return nil
}
