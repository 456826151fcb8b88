package identity

import (
	"context"
	"time"
)

// DefaultAvatarURL is applied at registration when no avatar is supplied.
const DefaultAvatarURL = "https://ac.goit.global/fullstack/react/default-avatar.jpg"

// User is Notehub's canonical security principal.
// IMPORTANT: User never carries the password hash; see UserAuth.
type User struct {
	ID        string
	Email     string
	EmailNorm string
	Username  string
	Avatar    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserAuth is the only projection exposing the stored password hash.
// It exists for login verification and must never be serialized to a client.
type UserAuth struct {
	User         User
	PasswordHash string
}

// CreateUserInput describes a registration request.
// Username is optional; when empty it is defaulted from the email local part.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	Now      time.Time
}

// CreateUserResult returns the created user.
type CreateUserResult struct {
	User User
}

// Store is the credential persistence boundary.
type Store interface {
	// CreateUser creates a new user and its credentials transactionally.
	// Returns ConflictError{Field: "email"} when the email is already bound.
	CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error)

	// GetUserByID loads a user by ID. Returns ErrNotFound when missing.
	GetUserByID(ctx context.Context, userID string) (User, error)

	// GetUserByEmail loads a user by normalized email. Returns ErrNotFound when missing.
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// GetUserAuthByEmail loads a user together with its password hash for login.
	GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error)

	// UpdatePassword replaces the stored password hash for a user.
	UpdatePassword(ctx context.Context, userID string, newHash string, now time.Time) error
}
