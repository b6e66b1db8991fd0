// Package promo manages promotional banners shown to clients.
package promo

import (
	"context"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Store provides promo persistence
type Store interface {
	CreatePromo(ctx context.Context, p *models.Promo) (int, error)
	GetAllPromos(ctx context.Context) ([]models.Promo, error)
	GetLastPromo(ctx context.Context) (*models.Promo, error)
	GetPromo(ctx context.Context, id int) (*models.Promo, error)
	UpdatePromo(ctx context.Context, p *models.Promo) error
	DeletePromo(ctx context.Context, id int) error
}

// Service implements promo management
type Service struct {
	store  Store
	logger *logger.Logger
}

// NewService creates a new promo service
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// AddPromo creates a promo banner
func (s *Service) AddPromo(ctx context.Context, req *models.PromoRequest, requestID string) (*models.Promo, error) {
	if req.Text == "" || req.Content == "" {
		return nil, apperr.Validation("promo text and content are required")
	}

	p := &models.Promo{Text: req.Text, Content: req.Content}
	id, err := s.store.CreatePromo(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	s.logger.Info("promo_added", requestID, "Promo added", "promo_id", id)
	return p, nil
}

// EditPromo updates a promo banner
func (s *Service) EditPromo(ctx context.Context, id int, req *models.PromoRequest, requestID string) error {
	if req.Text == "" || req.Content == "" {
		return apperr.Validation("promo text and content are required")
	}

	if err := s.store.UpdatePromo(ctx, &models.Promo{ID: id, Text: req.Text, Content: req.Content}); err != nil {
		return err
	}

	s.logger.Info("promo_edited", requestID, "Promo edited", "promo_id", id)
	return nil
}

// DeletePromo removes a promo banner
func (s *Service) DeletePromo(ctx context.Context, id int, requestID string) error {
	if err := s.store.DeletePromo(ctx, id); err != nil {
		return err
	}

	s.logger.Info("promo_deleted", requestID, "Promo deleted", "promo_id", id)
	return nil
}

// GetAllPromos returns every promo, newest first
func (s *Service) GetAllPromos(ctx context.Context) ([]models.Promo, error) {
	return s.store.GetAllPromos(ctx)
}

// GetLastPromo returns the most recent promo, or nil if none exists
func (s *Service) GetLastPromo(ctx context.Context) (*models.Promo, error) {
	return s.store.GetLastPromo(ctx)
}
