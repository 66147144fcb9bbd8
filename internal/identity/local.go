package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredentialNotFound is returned by a CredentialStore for an unknown email.
var ErrCredentialNotFound = errors.New("credential not found")

// Credential is a stored email/password pair.
type Credential struct {
	Email        string
	UID          string
	PasswordHash string
	CreatedAt    time.Time
}

// CredentialStore persists credentials for the LocalProvider.
type CredentialStore interface {
	// Create stores c and returns ErrEmailInUse if the email is taken.
	Create(ctx context.Context, c *Credential) error
	Find(ctx context.Context, email string) (*Credential, error)
	// Delete removes the credential; an unknown email is not an error.
	Delete(ctx context.Context, email string) error
}

// MemoryCredentials keeps credentials in a map.
type MemoryCredentials struct {
	mu sync.Mutex
	m  map[string]Credential
}

// NewMemoryCredentials creates an empty MemoryCredentials.
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{m: map[string]Credential{}}
}

func (s *MemoryCredentials) Create(_ context.Context, c *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[c.Email]; ok {
		return ErrEmailInUse
	}
	s.m[c.Email] = *c
	return nil
}

func (s *MemoryCredentials) Find(_ context.Context, email string) (*Credential, error) {
	s.mu.Lock()
	c, ok := s.m[email]
	s.mu.Unlock()
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return &c, nil
}

func (s *MemoryCredentials) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.m, email)
	s.mu.Unlock()
	return nil
}

// LocalProvider authenticates against bcrypt hashes kept in a CredentialStore.
type LocalProvider struct {
	store  CredentialStore
	cost   int
	logger *zap.Logger
	now    func() time.Time
}

// NewLocalProvider creates a LocalProvider with bcrypt.DefaultCost.
func NewLocalProvider(store CredentialStore, logger *zap.Logger) *LocalProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{store: store, cost: bcrypt.DefaultCost, logger: logger, now: time.Now}
}

// SignUp hashes password and stores a new credential under a fresh UID.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	c := &Credential{
		Email:        email,
		UID:          uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.Create(ctx, c); err != nil {
		if !errors.Is(err, ErrEmailInUse) {
			p.logger.Error("failed to store credential", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}
	p.logger.Info("identity created", zap.String("uid", c.UID), zap.String("email", email))
	return &Identity{UID: c.UID, Email: email}, nil
}

// SignIn verifies password against the stored hash.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	c, err := p.store.Find(ctx, email)
	if errors.Is(err, ErrCredentialNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{UID: c.UID, Email: c.Email}, nil
}

// Delete removes the account registered under email.
func (p *LocalProvider) Delete(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := p.store.Delete(ctx, email); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	p.logger.Info("identity deleted", zap.String("email", email))
	return nil
}

// Ensure signs email in, creating the account first when it does not exist.
// It is used to bootstrap the administrator.
func Ensure(ctx context.Context, p Provider, email, password string) (*Identity, error) {
	id, err := p.SignIn(ctx, email, password)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, err
	}
	id, err = p.SignUp(ctx, email, password)
	if errors.Is(err, ErrEmailInUse) {
		return nil, fmt.Errorf("account %s exists with a different password: %w", email, ErrInvalidCredentials)
	}
	return id, err
}
