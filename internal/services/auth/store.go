package auth

import (
	"context"

	"restaurant-backend/internal/models"
)

// Store provides user and role persistence for the auth service
type Store interface {
	CreateUser(ctx context.Context, u *models.User) (int, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
	UserByLogin(ctx context.Context, login string) (*models.User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	RoleByID(ctx context.Context, id int) (*models.Role, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
}
