package service_test

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/repository"
	"github.com/iliyamo/classroom-auth/internal/service"
	"github.com/iliyamo/classroom-auth/internal/token"
	"github.com/iliyamo/classroom-auth/internal/utils"
)

// memUserStore is an in-memory UserStore for tests.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]*model.User{}}
}

func (s *memUserStore) Create(_ context.Context, email, username, passwordHash, role string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	now := time.Now().UTC()
	s.users[s.nextID] = &model.User{
		ID:           s.nextID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.nextID, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByEmailToken(_ context.Context, tok string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.EmailToken != nil && *u.EmailToken == tok {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) SetEmailToken(_ context.Context, userID uint64, tok string, createdAt, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailToken = &tok
	u.TokenCreatedAt = &createdAt
	u.TokenExpiration = &expiresAt
	return nil
}

func (s *memUserStore) ClearEmailToken(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailToken = nil
	u.TokenCreatedAt = nil
	u.TokenExpiration = nil
	return nil
}

func (s *memUserStore) Activate(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = true
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID uint64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, userID uint64, username, profilePic *string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if username != nil {
		u.Username = *username
	}
	if profilePic != nil {
		u.ProfilePic = profilePic
	}
	return *u, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// memLedger is an in-memory revocation ledger enforcing the same
// uniqueness contract as the blacklisted_tokens table.
type memLedger struct {
	mu      sync.Mutex
	revoked map[string]uint64
}

func newMemLedger() *memLedger {
	return &memLedger{revoked: map[string]uint64{}}
}

func (l *memLedger) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.revoked[tokenHash]
	return ok, nil
}

func (l *memLedger) Revoke(_ context.Context, tokenHash string, userID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.revoked[tokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	l.revoked[tokenHash] = userID
	return nil
}

// notification records one dispatched email token.
type notification struct {
	Email   string
	Purpose string
	Token   string
}

// fakeNotifier records dispatches; err, when set, makes every send fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *fakeNotifier) SendActivation(_ context.Context, email, _ string, emailToken string) error {
	return n.record(email, "activation", emailToken)
}

func (n *fakeNotifier) SendPasswordReset(_ context.Context, email, _ string, emailToken string) error {
	return n.record(email, "password_reset", emailToken)
}

func (n *fakeNotifier) record(email, purpose, emailToken string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification{Email: email, Purpose: purpose, Token: emailToken})
	return nil
}

func (n *fakeNotifier) last() (notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// testEnv bundles a service with its fakes and codec.
type testEnv struct {
	svc      *service.AuthService
	users    *memUserStore
	ledger   *memLedger
	notifier *fakeNotifier
	codec    *token.Codec
}

const testSecret = "test-secret"

func newTestEnv() *testEnv {
	users := newMemUserStore()
	ledger := newMemLedger()
	n := &fakeNotifier{}
	codec := token.NewCodec(testSecret, 30*time.Second, 24*time.Hour)
	return &testEnv{
		svc:      service.New(users, ledger, codec, n, 4*time.Minute, bcrypt.MinCost),
		users:    users,
		ledger:   ledger,
		notifier: n,
		codec:    codec,
	}
}

// seedUser inserts a user directly, bypassing registration.
func (e *testEnv) seedUser(email, password string, active bool) model.User {
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	id, err := e.users.Create(context.Background(), email, "someone", hash, model.RoleStudent)
	if err != nil {
		panic(err)
	}
	if active {
		_ = e.users.Activate(context.Background(), id)
	}
	u, _ := e.users.GetByID(context.Background(), id)
	return u
}
