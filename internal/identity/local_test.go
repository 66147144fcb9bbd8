package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"zamflow/internal/testutil"
)

func newLocal(t *testing.T, store CredentialStore) *LocalProvider {
	t.Helper()
	p := NewLocalProvider(store, zaptest.NewLogger(t))
	p.cost = bcrypt.MinCost
	return p
}

func exerciseProvider(t *testing.T, p *LocalProvider) {
	ctx := context.Background()

	id, err := p.SignUp(ctx, " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, id.UID)
	assert.Equal(t, "alice@example.com", id.Email)

	_, err = p.SignUp(ctx, "alice@example.com", "another")
	assert.ErrorIs(t, err, ErrEmailInUse)

	got, err := p.SignIn(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.UID, got.UID)

	_, err = p.SignIn(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, p.Delete(ctx, " ALICE@example.com"))
	_, err = p.SignIn(ctx, "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, p.Delete(ctx, "alice@example.com"), "deleting twice is fine")

	again, err := p.SignUp(ctx, "alice@example.com", "secret2")
	require.NoError(t, err)
	assert.NotEqual(t, id.UID, again.UID)
}

func TestLocalProvider_Memory(t *testing.T) {
	exerciseProvider(t, newLocal(t, NewMemoryCredentials()))
}

func TestLocalProvider_SQLite(t *testing.T) {
	db := testutil.OpenSQLite(t, "identity_local")
	exerciseProvider(t, newLocal(t, NewSQLCredentials(db)))
}

func TestLocalProvider_Postgres(t *testing.T) {
	db := testutil.OpenPostgres(t)
	exerciseProvider(t, newLocal(t, NewSQLCredentials(db)))
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t, NewMemoryCredentials())

	first, err := Ensure(ctx, p, "admin@example.com", "admin123")
	require.NoError(t, err)

	again, err := Ensure(ctx, p, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, first.UID, again.UID)

	_, err = Ensure(ctx, p, "admin@example.com", "changed")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
