package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Users is the credential store contract. Register must enforce email
// uniqueness at write time; the orchestrator's existence pre-check is a
// courtesy, not the invariant.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Notifier delivers the password reset email. A delivery failure aborts the
// forgot-password flow.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// TokenService issues and verifies session bearer tokens.
type TokenService interface {
	Generate(userID string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// PasswordAuthenticator hashes passwords and compares them in constant time.
type PasswordAuthenticator interface {
	HashPassword(ctx context.Context, password string) (string, error)
	ComparePasswordAndHash(ctx context.Context, password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
