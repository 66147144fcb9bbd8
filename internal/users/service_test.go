package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"zamflow/internal/events"
)

func newTestService(t *testing.T) (*Service, *events.MemoryBroker) {
	t.Helper()
	broker := events.NewMemoryBroker()
	t.Cleanup(func() { _ = broker.Close() })
	svc := NewService(NewLocalStorage(), broker, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, broker
}

func TestNewService(t *testing.T) {
	svc := NewService(NewLocalStorage(), nil, nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.storage)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.events)
}

func TestRegister_CreatesPendingSalesperson(t *testing.T) {
	svc, broker := newTestService(t)
	ctx := context.Background()
	sub, cancel := broker.Subscribe(ctx)
	defer cancel()

	u, err := svc.Register(ctx, "uid-1", "  ana@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleSalesperson, u.Role)
	assert.Equal(t, StatusPending, u.Status)
	assert.False(t, u.IsActive())

	ev := <-sub
	assert.Equal(t, events.Users, ev.Collection)
	assert.Equal(t, events.Created, ev.Type)
	assert.Equal(t, "uid-1", ev.ID)

	_, err = svc.Register(ctx, "uid-1", "ana@example.com")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "admin-uid", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Equal(t, StatusActive, admin.Status)

	// A later change must survive a restart.
	_, err = svc.Apply(ctx, "admin-uid", ActionChangeRole, RoleManager)
	require.NoError(t, err)

	again, err := svc.EnsureAdmin(ctx, "admin-uid", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, again.Role)
}

func TestApply_Actions(t *testing.T) {
	tests := []struct {
		name       string
		action     Action
		role       Role
		wantRole   Role
		wantStatus Status
	}{
		{"approve default role", ActionApprove, "", RoleSalesperson, StatusActive},
		{"approve as manager", ActionApprove, RoleManager, RoleManager, StatusActive},
		{"reject", ActionReject, "", RoleSalesperson, StatusRejected},
		{"activate", ActionActivate, "", RoleSalesperson, StatusActive},
		{"deactivate", ActionDeactivate, "", RoleSalesperson, StatusPending},
		{"change role", ActionChangeRole, RoleAdmin, RoleAdmin, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			_, err := svc.Register(ctx, "u", "u@example.com")
			require.NoError(t, err)

			got, err := svc.Apply(ctx, "u", tt.action, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantStatus, got.Status)

			stored, err := svc.Get(ctx, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "u", "u@example.com")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "missing", ActionApprove, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Apply(ctx, "u", Action("promote"), "")
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.Apply(ctx, "u", ActionChangeRole, Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Apply(ctx, "u", ActionChangeRole, "")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Apply(ctx, "u", ActionApprove, Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestListPending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Register(ctx, id, id+"@example.com")
		require.NoError(t, err)
	}
	_, err := svc.Apply(ctx, "b", ActionApprove, "")
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, u := range pending {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestLocalStorage_ReturnsCopies(t *testing.T) {
	s := NewLocalStorage()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, &User{ID: "x", Role: RoleSalesperson}))

	u, err := s.Read(ctx, "x")
	require.NoError(t, err)
	u.Role = RoleAdmin

	again, err := s.Read(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, RoleSalesperson, again.Role)

	assert.ErrorIs(t, s.Set(ctx, &User{}), ErrEmptyID)
}
