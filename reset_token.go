package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultResetTTL is how long a password reset link stays usable.
const DefaultResetTTL = 5 * time.Minute

// ResetTokenService issues single-purpose password recovery tokens. Each
// token is signed with a key derived from the server secret concatenated
// with the user's password hash as stored at issuance time. When the
// password changes the derived key changes with it, so every previously
// issued token stops verifying without any persisted revocation state.
type ResetTokenService struct {
	serverSecret []byte
	ttl          time.Duration
	logger       Logger
}

// NewResetTokenService creates a ResetTokenService. The server secret is
// read-only after construction.
func NewResetTokenService(serverSecret []byte, ttl time.Duration, logger Logger) *ResetTokenService {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &ResetTokenService{
		serverSecret: serverSecret,
		ttl:          ttl,
		logger:       logger,
	}
}

func (rs *ResetTokenService) derivedKey(passwordHash string) []byte {
	key := make([]byte, 0, len(rs.serverSecret)+len(passwordHash))
	key = append(key, rs.serverSecret...)
	key = append(key, passwordHash...)
	return key
}

// Generate issues a reset token for the user, bound to the password hash
// currently on record.
func (rs *ResetTokenService) Generate(userID, currentPasswordHash string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(rs.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(rs.derivedKey(currentPasswordHash))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign reset token")
	}

	return signed, nil
}

// Validate recomputes the derived key from the caller-supplied current
// password hash and verifies the token against it. A bad signature, an
// expired token, a subject mismatch and a password hash changed since
// issuance all collapse into the same ErrResetTokenInvalid: the caller
// learns only that the link no longer works.
func (rs *ResetTokenService) Validate(tokenString, userID, currentPasswordHash string) error {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrResetTokenInvalid
		}
		return rs.derivedKey(currentPasswordHash), nil
	})

	if err != nil || !token.Valid {
		rs.logger.Debug("reset token rejected", "user_id", userID, "error", err)
		return ErrResetTokenInvalid
	}

	if claims.Subject != userID {
		rs.logger.Debug("reset token subject mismatch", "user_id", userID)
		return ErrResetTokenInvalid
	}

	return nil
}
