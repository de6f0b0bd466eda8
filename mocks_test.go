package auth_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auth "github.com/shopstack/auth"
)

// MockUsers implements auth.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockNotifier implements auth.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// memoryUsers is an in-memory Users store for end-to-end HTTP tests. It
// enforces email uniqueness at write time, like the real store.
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*auth.User
	byEmail map[string]uuid.UUID
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		byID:    map[uuid.UUID]*auth.User{},
		byEmail: map[string]uuid.UUID{},
	}
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	clone := *m.byID[id]
	return &clone, nil
}

func (m *memoryUsers) Register(_ context.Context, user *auth.User) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return nil, auth.ErrEmailTaken
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	clone := *user
	m.byID[clone.ID] = &clone
	m.byEmail[clone.Email] = clone.ID

	result := clone
	return &result, nil
}

func (m *memoryUsers) ResetPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// recordingNotifier captures outbound mail without delivering anything.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail != nil {
		return n.fail
	}

	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (n *recordingNotifier) last() (sentMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.sent) == 0 {
		return sentMail{}, false
	}
	return n.sent[len(n.sent)-1], true
}
