package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the session principal.
type User struct {
	ID             int        `json:"id" yaml:"id"`
	Username       string     `json:"username" yaml:"username"`
	Email          string     `json:"email" yaml:"email"`
	FirstName      string     `json:"first_name" yaml:"first_name,omitempty"`
	LastName       string     `json:"last_name" yaml:"last_name,omitempty"`
	Role           string     `json:"role" yaml:"role"`
	RoleDisplay    string     `json:"role_display,omitempty" yaml:"role_display,omitempty"`
	GraduationYear *int       `json:"graduation_year,omitempty" yaml:"graduation_year,omitempty"`
	Department     string     `json:"department,omitempty" yaml:"department,omitempty"`
	Bio            string     `json:"bio,omitempty" yaml:"bio,omitempty"`
	IsStaff        bool       `json:"is_staff" yaml:"is_staff"`
	DateJoined     *time.Time `json:"date_joined,omitempty" yaml:"date_joined,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=3,username"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Password2      string `json:"password2" validate:"required,eqfield=Password"`
	Role           string `json:"role" validate:"required,oneof=student alumni"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	GraduationYear *int   `json:"graduation_year,omitempty" validate:"omitempty,gradyear"`
	Department     string `json:"department,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// AuthResponse is returned by the forum API on login and registration.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
// Role is not editable.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	GraduationYear *int    `json:"graduation_year,omitempty" validate:"omitempty,gradyear"`
	Department     *string `json:"department,omitempty"`
	Bio            *string `json:"bio,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required,min=8"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type CheckAuthResponse struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// Claims are carried by portal access tokens.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *User       `json:"user"`
	Permissions Permissions `json:"permissions"`
}

// Permissions is the set of role-driven affordances shown to a principal.
type Permissions struct {
	LoggedIn       bool   `json:"logged_in"`
	CanPostJourney bool   `json:"can_post_journey"`
	IsStudent      bool   `json:"is_student"`
	DisplayRole    string `json:"display_role"`
}

type MeResponse struct {
	User        *User       `json:"user"`
	Permissions Permissions `json:"permissions"`
}
