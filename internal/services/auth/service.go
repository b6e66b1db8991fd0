package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/sessions"
)

// Service implements registration, login and session resolution
type Service struct {
	store    Store
	tokens   sessions.TokenStore
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService creates a new auth service
func NewService(store Store, tokens sessions.TokenStore, tokenTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// Register creates a new account. An empty RoleID registers a client;
// a concrete RoleID (admin-only path) registers an employee.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, requestID string) (*models.User, error) {
	if req.Login == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.PhoneNumber == "" {
		return nil, apperr.Validation("all fields are required")
	}

	taken, err := s.store.LoginExists(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Validation("user with login %q already exists", req.Login)
	}

	taken, err = s.store.PhoneExists(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Validation("phone number %q is already registered", req.PhoneNumber)
	}

	var role *models.Role
	if req.RoleID == 0 {
		role, err = s.store.RoleByName(ctx, models.RoleClient)
	} else {
		role, err = s.store.RoleByID(ctx, req.RoleID)
	}
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Login:        req.Login,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		RoleID:       role.ID,
		RoleName:     role.Name,
	}

	id, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.logger.Info("user_registered", requestID, "User registered",
		"user_id", id, "role", role.Name)

	return user, nil
}

// Login checks credentials and issues a session token
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, requestID string) (string, error) {
	if req.Login == "" || req.Password == "" {
		return "", apperr.Validation("login and password are required")
	}

	user, err := s.store.UserByLogin(ctx, req.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.Validation("invalid login or password")
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", apperr.Validation("invalid login or password")
	}

	token, err := s.tokens.Issue(ctx, user.ID, s.tokenTTL)
	if err != nil {
		return "", err
	}

	s.logger.Info("user_logged_in", requestID, "User logged in", "user_id", user.ID)

	return token, nil
}

// Logout revokes a session token
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authenticate resolves a session token to its user, or nil when the token
// is unknown or expired
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, nil
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
