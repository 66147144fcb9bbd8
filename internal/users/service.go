package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"zamflow/internal/events"
)

var (
	// ErrAlreadyExists is returned when registering a profile twice.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrInvalidRole is returned for an unknown role value.
	ErrInvalidRole = errors.New("invalid role value")
	// ErrInvalidAction is returned for an unknown admin action.
	ErrInvalidAction = errors.New("invalid user action")
)

// Service manages user profiles and their approval workflow.
type Service struct {
	storage Storage
	events  events.Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage: storage,
		events:  publisher,
		logger:  logger,
		now:     time.Now,
	}
}

// Register creates the profile for a freshly signed up identity. New
// accounts are salespersons waiting for approval.
func (s *Service) Register(ctx context.Context, id, email string) (*User, error) {
	if _, err := s.storage.Read(ctx, id); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:        id,
		Email:     strings.TrimSpace(email),
		Role:      RoleSalesperson,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Set(ctx, user); err != nil {
		s.logger.Error("failed to save user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", id), zap.String("email", user.Email))
	s.publish(ctx, events.Created, user)
	return user, nil
}

// EnsureAdmin creates an active administrator profile unless one is
// already stored under id.
func (s *Service) EnsureAdmin(ctx context.Context, id, email string) (*User, error) {
	existing, err := s.storage.Read(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin: %w", err)
	}

	now := s.now().UTC()
	admin := &User{
		ID:        id,
		Email:     email,
		Role:      RoleAdmin,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Set(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to save admin: %w", err)
	}
	s.logger.Info("admin initialized", zap.String("user_id", id), zap.String("email", email))
	s.publish(ctx, events.Created, admin)
	return admin, nil
}

// Get returns the profile stored under id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.storage.Read(ctx, id)
}

// List returns every profile.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	all, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return all, nil
}

// ListPending returns the profiles awaiting approval.
func (s *Service) ListPending(ctx context.Context) ([]*User, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*User, 0)
	for _, u := range all {
		if u.Status == StatusPending {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

// Apply runs an admin action against a profile. role is only consulted by
// approve (defaulting to salesperson) and changeRole.
func (s *Service) Apply(ctx context.Context, id string, action Action, role Role) (*User, error) {
	user, err := s.storage.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionApprove:
		if role == "" {
			role = RoleSalesperson
		}
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Status = StatusActive
		user.Role = role
	case ActionReject:
		user.Status = StatusRejected
	case ActionActivate:
		user.Status = StatusActive
	case ActionDeactivate:
		user.Status = StatusPending
	case ActionChangeRole:
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	default:
		return nil, ErrInvalidAction
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.storage.Set(ctx, user); err != nil {
		s.logger.Error("failed to update user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated",
		zap.String("user_id", id),
		zap.String("action", string(action)),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)),
	)
	s.publish(ctx, events.Updated, user)
	return user, nil
}

func (s *Service) publish(ctx context.Context, typ string, u *User) {
	ev := events.Event{Collection: events.Users, Type: typ, ID: u.ID, Data: u, At: s.now().UTC()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish user event", zap.String("user_id", u.ID), zap.Error(err))
	}
}
