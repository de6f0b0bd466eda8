package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeEmailTaken         = "email_taken"
	TextCodeUserNotFound       = "user_not_found"
	TextCodeResetTokenInvalid  = "reset_token_invalid"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeTokenBadSignature  = "token_bad_signature"
	TextCodeDeliveryFailed     = "delivery_failed"
)

// ErrInvalidCredentials is returned for any failed login, whether the
// account is missing or the password is wrong. Both cases share one
// message so responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when a user cannot be located by id or email.
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrResetTokenInvalid covers every reset token failure: bad signature,
// expired, or issued against a password hash that has since changed. The
// causes are indistinguishable on purpose.
var ErrResetTokenInvalid = errors.New("Reset link is invalid or expired", errors.CategoryBadInput).
	WithTextCode(TextCodeResetTokenInvalid).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when a session token signature does
// not verify against the server signing key.
var ErrTokenSignatureInvalid = errors.New("session token signature invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed.
var ErrTokenMalformed = errors.New("session token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrDeliveryFailed is returned when the reset email cannot be sent. It
// aborts the forgot-password flow.
var ErrDeliveryFailed = errors.New("failed to deliver reset email", errors.CategoryInternal).
	WithTextCode(TextCodeDeliveryFailed).
	WithCode(errors.CodeInternal)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the typed failure for a password that does
// not match its stored hash.
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
