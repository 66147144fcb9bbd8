package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// ToolkitProvider talks to the hosted identity toolkit REST API.
type ToolkitProvider struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

type toolkitRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type toolkitResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// ToolkitError is the error envelope returned by the toolkit API.
type ToolkitError struct {
	Err struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Code returns the provider error code, without any trailing detail
// ("WEAK_PASSWORD : Password should be..." yields "WEAK_PASSWORD").
func (e *ToolkitError) Code() string {
	code, _, _ := strings.Cut(e.Err.Message, " ")
	return code
}

// NewToolkitProvider creates a ToolkitProvider against baseURL.
func NewToolkitProvider(baseURL, apiKey string, logger *zap.Logger) *ToolkitProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second)
	return &ToolkitProvider{client: client, apiKey: apiKey, logger: logger}
}

// Close releases the underlying HTTP client.
func (p *ToolkitProvider) Close() error {
	return p.client.Close()
}

func (p *ToolkitProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return p.call(ctx, "/accounts:signUp", email, password)
}

func (p *ToolkitProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return p.call(ctx, "/accounts:signInWithPassword", email, password)
}

func (p *ToolkitProvider) call(ctx context.Context, path, email, password string) (*Identity, error) {
	var (
		out     toolkitResponse
		failure ToolkitError
	)
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(toolkitRequest{Email: strings.TrimSpace(email), Password: password, ReturnSecureToken: true}).
		SetResult(&out).
		SetError(&failure).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("identity request %s: %w", path, err)
	}
	if resp.IsError() {
		code := failure.Code()
		switch code {
		case "EMAIL_EXISTS":
			return nil, ErrEmailInUse
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
			return nil, ErrInvalidCredentials
		}
		p.logger.Warn("identity provider error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode(), failure.Err.Message)
	}
	if out.LocalID == "" {
		return nil, fmt.Errorf("identity provider returned no uid")
	}
	if out.Email == "" {
		out.Email = strings.TrimSpace(email)
	}
	return &Identity{UID: out.LocalID, Email: out.Email}, nil
}
