package auth

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

// NewPgStore creates a PostgreSQL-backed auth store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) CreateUser(ctx context.Context, u *models.User) (int, error) {
	var id int
	err := s.db.QueryRow(ctx, database.InsertUserSQL,
		u.Login, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.RoleID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *PgStore) UserByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(s.db.QueryRow(ctx, database.GetUserByIDSQL, id), "user", id)
}

func (s *PgStore) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	return scanUser(s.db.QueryRow(ctx, database.GetUserByLoginSQL, login), "user", login)
}

func (s *PgStore) LoginExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, database.LoginExistsSQL, login).Scan(&exists)
	return exists, err
}

func (s *PgStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, database.PhoneExistsSQL, phone).Scan(&exists)
	return exists, err
}

func (s *PgStore) RoleByID(ctx context.Context, id int) (*models.Role, error) {
	var role models.Role
	err := s.db.QueryRow(ctx, database.GetRoleByIDSQL, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("role", id)
		}
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &role, nil
}

func (s *PgStore) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.QueryRow(ctx, database.GetRoleByNameSQL, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("role", name)
		}
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &role, nil
}

// scanUser scans a user row from any of the user queries
func scanUser(row pgx.Row, entity string, key any) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Login,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&u.RoleID,
		&u.RoleName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(entity, key)
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
