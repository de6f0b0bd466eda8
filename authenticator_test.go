package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/shopstack/auth"
)

func testConfig() *auth.Config {
	return &auth.Config{
		SigningKey:      "test-server-secret",
		BaseURL:         "http://localhost:5000",
		SessionTokenTTL: time.Hour,
		ResetTokenTTL:   5 * time.Minute,
	}
}

func TestAuther_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and issues a session token", func(t *testing.T) {
		store := &MockUsers{}
		auther := auth.NewAuthenticator(store, testConfig())

		userID := uuid.New()
		store.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, auth.ErrUserNotFound)
		store.On("Register", mock.Anything, mock.AnythingOfType("*auth.User")).
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*auth.User)
				assert.Equal(t, "A", user.Name)
				assert.Equal(t, "a@x.com", user.Email)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "pw1", user.PasswordHash)
			}).
			Return(&auth.User{ID: userID, Name: "A", Email: "a@x.com"}, nil)

		token, user, err := auther.Register(ctx, "A", "a@x.com", "pw1")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		require.NotNil(t, user)
		assert.Equal(t, userID, user.ID)

		claims, err := auther.SessionFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID())

		store.AssertExpectations(t)
	})

	t.Run("reports a conflict when the email exists", func(t *testing.T) {
		store := &MockUsers{}
		auther := auth.NewAuthenticator(store, testConfig())

		store.On("GetByEmail", mock.Anything, "a@x.com").
			Return(&auth.User{ID: uuid.New(), Email: "a@x.com"}, nil)

		_, _, err := auther.Register(ctx, "A", "a@x.com", "pw2")

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
		store.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		store := &MockUsers{}
		auther := auth.NewAuthenticator(store, testConfig())

		store.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, auth.ErrUserNotFound)

		_, _, err := auther.Register(ctx, "A", "a@x.com", "")

		assert.Error(t, err)
	})
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	user := &auth.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hash}

	t.Run("issues a session token for valid credentials", func(t *testing.T) {
		store := &MockUsers{}
		auther := auth.NewAuthenticator(store, testConfig())

		store.On("GetByEmail", mock.Anything, "a@x.com").Return(user, nil)

		token, err := auther.Login(ctx, "a@x.com", "pw1")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := auther.SessionFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
	})

	t.Run("wrong password and missing account fail identically", func(t *testing.T) {
		store := &MockUsers{}
		auther := auth.NewAuthenticator(store, testConfig())

		store.On("GetByEmail", mock.Anything, "a@x.com").Return(user, nil)
		store.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, auth.ErrUserNotFound)

		_, wrongPassword := auther.Login(ctx, "a@x.com", "wrong")
		_, missingAccount := auther.Login(ctx, "nobody@x.com", "whatever")

		assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, missingAccount, auth.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), missingAccount.Error())
	})
}

func TestAuther_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	user := &auth.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: hash}

	t.Run("delivers a reset link bound to the current hash", func(t *testing.T) {
		store := &MockUsers{}
		notifier := &recordingNotifier{}
		auther := auth.NewAuthenticator(store, testConfig()).WithNotifier(notifier)

		store.On("GetByEmail", mock.Anything, "a@x.com").Return(user, nil)
		store.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		err := auther.ForgotPassword(ctx, "a@x.com")
		assert.NoError(t, err)

		mail, ok := notifier.last()
		require.True(t, ok)
		assert.Equal(t, "a@x.com", mail.To)
		assert.Equal(t, auth.ResetEmailSubject, mail.Subject)
		assert.Contains(t, mail.Body, "/api/auth/reset-password/"+user.ID.String()+"/")

		token := lastPathSegment(t, mail.Body)
		_, err = auther.VerifyReset(ctx, user.ID.String(), token)
		assert.NoError(t, err)
	})

	t.Run("unknown email surfaces as not found", func(t *testing.T) {
		store := &MockUsers{}
		notifier := &recordingNotifier{}
		auther := auth.NewAuthenticator(store, testConfig()).WithNotifier(notifier)

		store.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, auth.ErrUserNotFound)

		err := auther.ForgotPassword(ctx, "nobody@x.com")

		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		_, sent := notifier.last()
		assert.False(t, sent)
	})

	t.Run("delivery failure aborts the flow", func(t *testing.T) {
		store := &MockUsers{}
		notifier := &recordingNotifier{fail: auth.ErrDeliveryFailed}
		auther := auth.NewAuthenticator(store, testConfig()).WithNotifier(notifier)

		store.On("GetByEmail", mock.Anything, "a@x.com").Return(user, nil)

		err := auther.ForgotPassword(ctx, "a@x.com")

		assert.ErrorIs(t, err, auth.ErrDeliveryFailed)
	})
}

func TestAuther_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("full recovery flow consumes the link", func(t *testing.T) {
		store := newMemoryUsers()
		notifier := &recordingNotifier{}
		auther := auth.NewAuthenticator(store, testConfig()).WithNotifier(notifier)

		_, user, err := auther.Register(ctx, "A", "a@x.com", "pw1")
		require.NoError(t, err)

		require.NoError(t, auther.ForgotPassword(ctx, "a@x.com"))

		mail, ok := notifier.last()
		require.True(t, ok)
		token := lastPathSegment(t, mail.Body)

		// show-form verification succeeds before any change
		shown, err := auther.VerifyReset(ctx, user.ID.String(), token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", shown.Email)

		require.NoError(t, auther.ResetPassword(ctx, user.ID.String(), token, "pw2"))

		// new password works, old one does not
		_, err = auther.Login(ctx, "a@x.com", "pw2")
		assert.NoError(t, err)
		_, err = auther.Login(ctx, "a@x.com", "pw1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		// replaying the consumed link fails, and keeps failing
		for i := 0; i < 3; i++ {
			err = auther.ResetPassword(ctx, user.ID.String(), token, "pw3")
			assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
		}
		_, err = auther.VerifyReset(ctx, user.ID.String(), token)
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})

	t.Run("unknown user id is not found", func(t *testing.T) {
		store := newMemoryUsers()
		auther := auth.NewAuthenticator(store, testConfig())

		err := auther.ResetPassword(ctx, uuid.NewString(), "some-token", "pw2")

		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("malformed user id reads as an invalid link", func(t *testing.T) {
		store := newMemoryUsers()
		auther := auth.NewAuthenticator(store, testConfig())

		err := auther.ResetPassword(ctx, "not-a-uuid", "some-token", "pw2")
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)

		_, err = auther.VerifyReset(ctx, "not-a-uuid", "some-token")
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})
}

func lastPathSegment(t *testing.T, emailBody string) string {
	t.Helper()

	start := strings.Index(emailBody, `href="`)
	require.GreaterOrEqual(t, start, 0)
	rest := emailBody[start+len(`href="`):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)

	link := rest[:end]
	parts := strings.Split(link, "/")
	require.NotEmpty(t, parts)

	return parts[len(parts)-1]
}
