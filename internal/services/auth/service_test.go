package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

type fakeStore struct {
	users  map[int]*models.User
	roles  map[int]*models.Role
	nextID int
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		users:  make(map[int]*models.User),
		roles:  make(map[int]*models.Role),
		nextID: 1,
	}
	names := []string{
		models.RoleClient, models.RoleWaiter, models.RoleCourier,
		models.RoleFloorWorker, models.RoleKitchenWorker, models.RoleAdmin,
	}
	for i, name := range names {
		f.roles[i+1] = &models.Role{ID: i + 1, Name: name}
	}
	return f
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) (int, error) {
	id := f.nextID
	f.nextID++
	stored := *u
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeStore) UserByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeStore) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", login)
}

func (f *fakeStore) LoginExists(ctx context.Context, login string) (bool, error) {
	_, err := f.UserByLogin(ctx, login)
	return err == nil, nil
}

func (f *fakeStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	for _, u := range f.users {
		if u.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) RoleByID(ctx context.Context, id int) (*models.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, apperr.NotFound("role", id)
	}
	return role, nil
}

func (f *fakeStore) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	for _, role := range f.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, apperr.NotFound("role", name)
}

type fakeTokens struct {
	sessions map[string]int
	nextID   int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{sessions: make(map[string]int), nextID: 1}
}

func (f *fakeTokens) Issue(ctx context.Context, userID int, ttl time.Duration) (string, error) {
	token := fmt.Sprintf("token-%d", f.nextID)
	f.nextID++
	f.sessions[token] = userID
	return token, nil
}

func (f *fakeTokens) Resolve(ctx context.Context, token string) (int, error) {
	return f.sessions[token], nil
}

func (f *fakeTokens) Revoke(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeTokens) {
	store := newFakeStore()
	tokens := newFakeTokens()
	svc := NewService(store, tokens, 30*24*time.Hour, logger.New("auth-test"))
	return svc, store, tokens
}

func registerReq() *models.RegisterRequest {
	return &models.RegisterRequest{
		Login:       "anna",
		Password:    "secret",
		FirstName:   "Anna",
		LastName:    "K",
		PhoneNumber: "+77001234567",
	}
}

func TestRegisterDefaultsToClient(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.Register(context.Background(), registerReq(), "test")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.RoleName != models.RoleClient {
		t.Errorf("role = %q, want Client", user.RoleName)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterUniqueness(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), registerReq(), "test"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// duplicate login
	dup := registerReq()
	dup.PhoneNumber = "+77009999999"
	if _, err := svc.Register(context.Background(), dup, "test"); !apperr.IsValidation(err) {
		t.Errorf("duplicate login error = %v, want validation error", err)
	}

	// duplicate phone
	dup = registerReq()
	dup.Login = "anna2"
	if _, err := svc.Register(context.Background(), dup, "test"); !apperr.IsValidation(err) {
		t.Errorf("duplicate phone error = %v, want validation error", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	req := registerReq()
	req.PhoneNumber = ""
	if _, err := svc.Register(context.Background(), req, "test"); !apperr.IsValidation(err) {
		t.Errorf("Register() error = %v, want validation error", err)
	}
}

func TestRegisterWithRole(t *testing.T) {
	svc, store, _ := newTestService()

	req := registerReq()
	role, err := store.RoleByName(context.Background(), models.RoleWaiter)
	if err != nil {
		t.Fatalf("RoleByName() error = %v", err)
	}
	req.RoleID = role.ID

	user, err := svc.Register(context.Background(), req, "test")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.RoleName != models.RoleWaiter {
		t.Errorf("role = %q, want Waiter", user.RoleName)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()

	registered, err := svc.Register(context.Background(), registerReq(), "test")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), &models.LoginRequest{
		Login: "anna", Password: "secret",
	}, "test")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	user, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user == nil || user.ID != registered.ID {
		t.Errorf("Authenticate() = %+v, want user %d", user, registered.ID)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	user, err = svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate() after logout error = %v", err)
	}
	if user != nil {
		t.Error("expected nil user after logout")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), registerReq(), "test"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Login: "anna", Password: "wrong",
	}, "test")
	if !apperr.IsValidation(err) {
		t.Errorf("Login() error = %v, want validation error", err)
	}

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Login: "nobody", Password: "secret",
	}, "test")
	if !apperr.IsValidation(err) {
		t.Errorf("unknown login error = %v, want validation error", err)
	}
}
