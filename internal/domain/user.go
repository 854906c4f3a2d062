package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrDuplicateUsername = errors.New("username already exists")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Summary returns the public representation embedded in events, invitations and feedback.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSummary is the public view of a user nested inside other resources.
// swagger:model UserSummary
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer issues access and refresh tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	IssueAccess(userID, username string) (string, error)
	IssueRefresh(userID, username string) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	// Verify accepts access tokens only.
	Verify(token string) (userID string, err error)
	// VerifyRefresh accepts refresh tokens only.
	VerifyRefresh(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// AuthService defines registration, login and token refresh.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
