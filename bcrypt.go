package auth

import (
	"context"
	"runtime"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash. The salt and cost parameters
// are embedded in the output, so verification needs no side channel.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. bcrypt's comparison is constant time; a mismatch
// returns ErrMismatchedHashAndPassword, a malformed hash an internal error.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return errors.Wrap(err, errors.CategoryInternal, "malformed password hash")
	}
	return nil
}

// Hasher bounds how many bcrypt operations run at once. Request handlers
// already run on their own goroutines; the semaphore keeps a burst of
// hashing from monopolizing every scheduler thread. Callers block only on
// their own operation, with no ordering guarantee between requests.
type Hasher struct {
	sem chan struct{}
}

// NewHasher creates a Hasher allowing up to maxConcurrent simultaneous
// hashing operations. Zero or negative means one slot per CPU.
func NewHasher(maxConcurrent int) *Hasher {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &Hasher{sem: make(chan struct{}, maxConcurrent)}
}

func (h *Hasher) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled waiting for hash slot")
	}
}

func (h *Hasher) release() {
	<-h.sem
}

// HashPassword hashes the password on an available slot.
func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	return HashPassword(password)
}

// ComparePasswordAndHash verifies the password on an available slot.
func (h *Hasher) ComparePasswordAndHash(ctx context.Context, password, hash string) error {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.release()

	return ComparePasswordAndHash(password, hash)
}

var _ PasswordAuthenticator = (*Hasher)(nil)
