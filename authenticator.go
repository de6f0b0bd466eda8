package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther sequences the authentication operations: register, login,
// forgot-password and reset-password. It owns no state beyond its two
// signing secrets, which are fixed at construction; every request is
// handled independently.
type Auther struct {
	store    Users
	hasher   PasswordAuthenticator
	tokens   TokenService
	resets   *ResetTokenService
	notifier Notifier
	logger   Logger
	baseURL  string
}

// NewAuthenticator returns a new Auther wired from config. Collaborators
// can be swapped with the With* setters before first use.
func NewAuthenticator(store Users, cfg *Config) *Auther {
	return &Auther{
		store:   store,
		hasher:  NewHasher(0),
		tokens:  NewTokenService([]byte(cfg.SigningKey), cfg.SessionTokenTTL, nil),
		resets:  NewResetTokenService([]byte(cfg.SigningKey), cfg.ResetTokenTTL, nil),
		logger:  defLogger{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Auther) WithNotifier(notifier Notifier) *Auther {
	s.notifier = notifier
	return s
}

func (s *Auther) WithHasher(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

func (s *Auther) WithResetTokenService(resets *ResetTokenService) *Auther {
	if resets != nil {
		s.resets = resets
	}
	return s
}

// TokenService returns the session token service used by this Auther.
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Register creates a new account and issues a session token for it. The
// existence pre-check and the insert are two store interactions; the unique
// email constraint is what actually prevents duplicate accounts under
// concurrent registration.
func (s *Auther) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing user")
	}

	hash, err := s.hasher.HashPassword(ctx, password)
	if err != nil {
		return "", nil, err
	}

	user, err := s.store.Register(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		s.logger.Error("register create user failed", "email", email, "error", err)
		return "", nil, err
	}

	token, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Login verifies credentials and issues a session token. A missing account
// and a wrong password both return ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := s.hasher.ComparePasswordAndHash(ctx, password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	return s.tokens.Generate(user.ID.String())
}

// ForgotPassword issues a reset token bound to the user's current password
// hash and emails the recovery link. Unknown emails surface as
// ErrUserNotFound; delivery failure aborts the whole operation.
func (s *Auther) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.resets.Generate(user.ID.String(), user.PasswordHash)
	if err != nil {
		return err
	}

	link := s.ResetLink(user.ID.String(), token)
	s.logger.Debug("generated reset link", "link", link)

	if s.notifier == nil {
		return errors.New("no notifier configured", errors.CategoryInternal).
			WithCode(errors.CodeInternal)
	}

	return s.notifier.Send(ctx, user.Email, ResetEmailSubject, ResetEmailBody(link))
}

// ResetLink builds the recovery URL delivered by email.
func (s *Auther) ResetLink(userID, token string) string {
	return fmt.Sprintf("%s/api/auth/reset-password/%s/%s", s.baseURL, userID, token)
}

// VerifyReset checks a reset link before the user is shown the change form.
// Any failure, including an unknown user id, reports the link as invalid.
func (s *Auther) VerifyReset(ctx context.Context, userID, token string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrResetTokenInvalid
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for reset verification")
	}

	if err := s.resets.Validate(token, user.ID.String(), user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword verifies the reset token against the current stored hash,
// then hashes and persists the new password. Verification and the write are
// two store interactions: a concurrent reset using the same still-valid
// token can race this one, but both converge on a single final password and
// every token issued against the old hash dies with the update.
func (s *Auther) ResetPassword(ctx context.Context, userID, token, newPassword string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrResetTokenInvalid
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.resets.Validate(token, user.ID.String(), user.PasswordHash); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(ctx, newPassword)
	if err != nil {
		return err
	}

	if err := s.store.ResetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", user.ID.String())
	return nil
}

// SessionFromToken verifies a raw session token and returns its claims.
func (s *Auther) SessionFromToken(raw string) (*SessionClaims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Error("session token validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
