package identity

import (
	"context"
	"errors"
	"strings"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var (
	// ErrEmailInUse is returned when signing up with a registered email.
	ErrEmailInUse = errors.New("Email is already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrMissingFields is returned when a form field is blank.
	ErrMissingFields = errors.New("Please fill in all fields")
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("Passwords do not match")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// Identity is an authenticated account as known by the provider.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Provider creates and verifies email/password accounts.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
}

// Deleter is implemented by providers that can remove an account they
// created, so a signup whose profile could not be stored can be undone.
type Deleter interface {
	Delete(ctx context.Context, email string) error
}

// SignupForm is the payload of the signup page.
type SignupForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the form before any provider call.
func (f SignupForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" || f.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(f.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// LoginForm is the payload of the login page.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return ErrMissingFields
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
