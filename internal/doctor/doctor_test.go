package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zamflow/internal/config"
)

func validConfig() config.IdentityConfig {
	return config.IdentityConfig{
		Provider:          "toolkit",
		APIKey:            "AIzaTestKey",
		AuthDomain:        "zamflow-test.firebaseapp.com",
		ProjectID:         "zamflow-test",
		StorageBucket:     "zamflow-test.appspot.com",
		MessagingSenderID: "1234",
		AppID:             "1:1234:web:abcd",
	}
}

// backend fakes the identity, document and auth domain endpoints.
type backend struct {
	signUpStatus    int
	signUpMessage   string
	documentsStatus int
	domainStatus    int
}

func (b backend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.signUpStatus)
		if b.signUpStatus == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]string{"localId": "x"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": b.signUpMessage}})
	})
	mux.HandleFunc("/fs/projects/zamflow-test/databases/(default)/documents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(b.documentsStatus)
	})
	mux.HandleFunc("/domain", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(b.domainStatus)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newDoctor(t *testing.T, cfg config.IdentityConfig, srv *httptest.Server) *Doctor {
	t.Helper()
	cfg.BaseURL = srv.URL + "/v1"
	cfg.FirestoreURL = srv.URL + "/fs"
	d := New(cfg)
	d.domainURL = srv.URL + "/domain"
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestCheckConfig(t *testing.T) {
	ctx := context.Background()

	assert.True(t, New(validConfig()).checkConfig(ctx).OK)

	cfg := validConfig()
	cfg.StorageBucket = ""
	res := New(cfg).checkConfig(ctx)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "storageBucket")

	cfg = validConfig()
	cfg.APIKey = "nope"
	assert.False(t, New(cfg).checkConfig(ctx).OK)

	cfg = validConfig()
	cfg.AuthDomain = "example.com"
	assert.False(t, New(cfg).checkConfig(ctx).OK)
}

func TestRun_AllPass(t *testing.T) {
	srv := backend{
		signUpStatus:    http.StatusBadRequest,
		signUpMessage:   "EMAIL_EXISTS",
		documentsStatus: http.StatusOK,
		domainStatus:    http.StatusNotFound,
	}.server(t)
	d := newDoctor(t, validConfig(), srv)

	var out bytes.Buffer
	rep := Run(context.Background(), &out, d.Checks())
	assert.Equal(t, 4, rep.Run)
	assert.Equal(t, 4, rep.Passed)
	assert.True(t, rep.OK())
	assert.Contains(t, out.String(), "EMAIL_EXISTS")
	assert.Contains(t, out.String(), "auth domain returned 404")
	assert.Contains(t, out.String(), "Tests passed: 4/4")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend backend
		failing string
	}{
		{
			name:    "invalid api key",
			backend: backend{signUpStatus: http.StatusBadRequest, signUpMessage: "API key not valid. INVALID_API_KEY", documentsStatus: http.StatusOK, domainStatus: http.StatusOK},
			failing: "invalid API key",
		},
		{
			name:    "unexpected signup status",
			backend: backend{signUpStatus: http.StatusInternalServerError, documentsStatus: http.StatusOK, domainStatus: http.StatusOK},
			failing: "unexpected response: 500",
		},
		{
			name:    "documents denied",
			backend: backend{signUpStatus: http.StatusOK, documentsStatus: http.StatusForbidden, domainStatus: http.StatusOK},
			failing: "access denied",
		},
		{
			name:    "documents missing",
			backend: backend{signUpStatus: http.StatusOK, documentsStatus: http.StatusNotFound, domainStatus: http.StatusOK},
			failing: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoctor(t, validConfig(), tt.backend.server(t))
			var out bytes.Buffer
			rep := Run(context.Background(), &out, d.Checks())
			require.Equal(t, 4, rep.Run)
			assert.Equal(t, 3, rep.Passed)
			assert.False(t, rep.OK())
			assert.Contains(t, out.String(), tt.failing)
			assert.Contains(t, out.String(), "Tests passed: 3/4")
		})
	}
}

func TestCheckAuthDomain_NotConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.AuthDomain = ""
	d := New(cfg)
	t.Cleanup(func() { _ = d.Close() })

	res := d.checkAuthDomain(context.Background())
	assert.True(t, res.Warning)
	assert.Equal(t, "auth domain is not configured", res.Detail)
}

func TestCheckAuthDomain_Unreachable(t *testing.T) {
	d := New(validConfig())
	d.domainURL = "http://127.0.0.1:1"
	t.Cleanup(func() { _ = d.Close() })

	res := d.checkAuthDomain(context.Background())
	assert.True(t, res.OK)
	assert.True(t, res.Warning)
}
