package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeToolkit answers signUp and signInWithPassword for a single account.
func fakeToolkit(t *testing.T) *httptest.Server {
	t.Helper()
	accounts := map[string]string{"taken@example.com": "secret1"}

	writeErr := func(w http.ResponseWriter, status int, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "AIza-test" {
			writeErr(w, http.StatusBadRequest, "API key not valid. Please pass a valid API key.")
			return
		}
		var body toolkitRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusBadRequest, "INVALID_JSON")
			return
		}
		assert.True(t, body.ReturnSecureToken)

		switch r.URL.Path {
		case "/v1/accounts:signUp":
			if _, ok := accounts[body.Email]; ok {
				writeErr(w, http.StatusBadRequest, "EMAIL_EXISTS")
				return
			}
			if len(body.Password) < 6 {
				writeErr(w, http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
				return
			}
		case "/v1/accounts:signInWithPassword":
			pw, ok := accounts[body.Email]
			if !ok {
				writeErr(w, http.StatusBadRequest, "EMAIL_NOT_FOUND")
				return
			}
			if pw != body.Password {
				writeErr(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
				return
			}
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"localId": "uid-" + body.Email, "email": body.Email})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newToolkit(t *testing.T, url, key string) *ToolkitProvider {
	t.Helper()
	p := NewToolkitProvider(url+"/v1/", key, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestToolkitProvider_SignUp(t *testing.T) {
	srv := fakeToolkit(t)
	p := newToolkit(t, srv.URL, "AIza-test")
	ctx := context.Background()

	id, err := p.SignUp(ctx, "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-new@example.com", id.UID)
	assert.Equal(t, "new@example.com", id.Email)

	_, err = p.SignUp(ctx, "taken@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = p.SignUp(ctx, "weak@example.com", "123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailInUse)
	assert.Contains(t, err.Error(), "WEAK_PASSWORD")
}

func TestToolkitProvider_SignIn(t *testing.T) {
	srv := fakeToolkit(t)
	p := newToolkit(t, srv.URL, "AIza-test")
	ctx := context.Background()

	id, err := p.SignIn(ctx, "taken@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-taken@example.com", id.UID)

	_, err = p.SignIn(ctx, "taken@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "missing@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestToolkitProvider_BadKey(t *testing.T) {
	srv := fakeToolkit(t)
	p := newToolkit(t, srv.URL, "bad")

	_, err := p.SignIn(context.Background(), "taken@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "400")
}

func TestToolkitError_Code(t *testing.T) {
	var e ToolkitError
	e.Err.Message = "WEAK_PASSWORD : Password should be at least 6 characters"
	assert.Equal(t, "WEAK_PASSWORD", e.Code())
	e.Err.Message = "EMAIL_EXISTS"
	assert.Equal(t, "EMAIL_EXISTS", e.Code())
}
