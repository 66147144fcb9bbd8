package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"zamflow/internal/config"
)

// Result is the outcome of one check. A warning still counts as passed.
type Result struct {
	OK      bool
	Warning bool
	Detail  string
}

func pass(format string, args ...any) Result {
	return Result{OK: true, Detail: fmt.Sprintf(format, args...)}
}
func fail(format string, args ...any) Result { return Result{Detail: fmt.Sprintf(format, args...)} }
func warn(format string, args ...any) Result {
	return Result{OK: true, Warning: true, Detail: fmt.Sprintf(format, args...)}
}

// Check is a named diagnostic.
type Check struct {
	Name string
	Run  func(ctx context.Context) Result
}

// Report counts the checks run and passed.
type Report struct {
	Run    int
	Passed int
}

// OK reports whether every check passed.
func (r Report) OK() bool { return r.Passed == r.Run }

// Doctor runs connectivity checks against the hosted identity backend.
type Doctor struct {
	cfg       config.IdentityConfig
	client    *resty.Client
	domainURL string
}

// New creates a Doctor for cfg.
func New(cfg config.IdentityConfig) *Doctor {
	return &Doctor{
		cfg:       cfg,
		client:    resty.New().SetTimeout(10 * time.Second),
		domainURL: "https://" + cfg.AuthDomain,
	}
}

// Close releases the HTTP client.
func (d *Doctor) Close() error {
	return d.client.Close()
}

// Checks returns the identity backend checks in the order they run.
func (d *Doctor) Checks() []Check {
	return []Check{
		{Name: "Identity configuration validity", Run: d.checkConfig},
		{Name: "Identity project accessibility", Run: d.checkSignUp},
		{Name: "Document database access", Run: d.checkFirestore},
		{Name: "Auth domain setup", Run: d.checkAuthDomain},
	}
}

// Run executes checks in order, printing one line per check to w.
func Run(ctx context.Context, w io.Writer, checks []Check) Report {
	var rep Report
	for _, c := range checks {
		rep.Run++
		fmt.Fprintf(w, "Testing %s...\n", c.Name)
		res := c.Run(ctx)
		switch {
		case res.Warning:
			rep.Passed++
			fmt.Fprintf(w, "  ! %s\n", res.Detail)
		case res.OK:
			rep.Passed++
			fmt.Fprintf(w, "  ✓ %s\n", res.Detail)
		default:
			fmt.Fprintf(w, "  ✗ %s\n", res.Detail)
		}
	}
	fmt.Fprintf(w, "\nTests passed: %d/%d\n", rep.Passed, rep.Run)
	return rep
}

func (d *Doctor) checkConfig(context.Context) Result {
	fields := []struct{ name, value string }{
		{"apiKey", d.cfg.APIKey},
		{"authDomain", d.cfg.AuthDomain},
		{"projectId", d.cfg.ProjectID},
		{"storageBucket", d.cfg.StorageBucket},
		{"messagingSenderId", d.cfg.MessagingSenderID},
		{"appId", d.cfg.AppID},
	}
	for _, f := range fields {
		if f.value == "" {
			return fail("missing required field: %s", f.name)
		}
	}
	if !strings.HasPrefix(d.cfg.APIKey, "AIza") {
		return fail("API key format looks invalid")
	}
	if !strings.HasSuffix(d.cfg.AuthDomain, ".firebaseapp.com") {
		return fail("auth domain format looks invalid")
	}
	return pass("configuration format is valid")
}

func (d *Doctor) checkSignUp(ctx context.Context) Result {
	var failure struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("key", d.cfg.APIKey).
		SetBody(map[string]any{
			"email":             "test@example.com",
			"password":          "testpass123",
			"returnSecureToken": true,
		}).
		SetError(&failure).
		Post(strings.TrimRight(d.cfg.BaseURL, "/") + "/accounts:signUp")
	if err != nil {
		return fail("network error: %v", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return pass("identity API is accessible")
	case http.StatusBadRequest:
		if strings.Contains(failure.Error.Message, "INVALID_API_KEY") || strings.Contains(resp.String(), "INVALID_API_KEY") {
			return fail("invalid API key")
		}
		msg := failure.Error.Message
		if msg == "" {
			msg = "Unknown"
		}
		return pass("identity API is accessible (got expected error: %s)", msg)
	default:
		return fail("unexpected response: %d", resp.StatusCode())
	}
}

func (d *Doctor) checkFirestore(ctx context.Context) Result {
	url := fmt.Sprintf("%s/projects/%s/databases/(default)/documents",
		strings.TrimRight(d.cfg.FirestoreURL, "/"), d.cfg.ProjectID)
	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fail("network error: %v", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return pass("document database is accessible")
	case http.StatusForbidden:
		return fail("document database access denied, check security rules")
	case http.StatusNotFound:
		return fail("document database not found")
	default:
		return fail("unexpected response: %d", resp.StatusCode())
	}
}

func (d *Doctor) checkAuthDomain(ctx context.Context) Result {
	if d.cfg.AuthDomain == "" {
		return warn("auth domain is not configured")
	}
	resp, err := d.client.R().SetContext(ctx).Get(d.domainURL)
	if err != nil {
		return warn("could not reach auth domain: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return warn("auth domain returned %d", resp.StatusCode())
	}
	return pass("auth domain is accessible")
}
