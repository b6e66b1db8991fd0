package models

import "time"

// Role names. Client is the only non-employee role.
const (
	RoleClient        = "Client"
	RoleWaiter        = "Waiter"
	RoleCourier       = "Courier"
	RoleFloorWorker   = "FloorWorker"
	RoleKitchenWorker = "KitchenWorker"
	RoleAdmin         = "Admin"
)

// Role is a named user role
type Role struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// User represents a client or employee account
type User struct {
	ID           int    `json:"id" db:"id"`
	Login        string `json:"login" db:"login"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	PhoneNumber  string `json:"phone_number" db:"phone_number"`
	RoleID       int    `json:"role_id" db:"role_id"`
	RoleName     string `json:"role" db:"role_name"`
}

// IsEmployee reports whether the user holds any non-client role
func (u *User) IsEmployee() bool {
	return u.RoleName != "" && u.RoleName != RoleClient
}

// Shift is a calendar work date with assigned employees
type Shift struct {
	ID   int       `json:"id" db:"id"`
	Date time.Time `json:"-" db:"date"`
}

// RegisterRequest represents the request to register a user
type RegisterRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	RoleID      int    `json:"role_id,omitempty"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse represents a user profile over the wire
type UserResponse struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	RoleID      int    `json:"role_id"`
	Role        string `json:"role"`
}

// UserToResponse maps a user to its wire shape
func UserToResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		Role:        u.RoleName,
	}
}

// EmployeeResponse is a user together with shift dates and served tables
type EmployeeResponse struct {
	Employee UserResponse `json:"employee"`
	Shifts   []string     `json:"shifts"`
	Tables   []int        `json:"tables"`
}
