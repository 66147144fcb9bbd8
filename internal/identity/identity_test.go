package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form SignupForm
		want error
	}{
		{"valid", SignupForm{Email: "a@b.com", Password: "secret", ConfirmPassword: "secret"}, nil},
		{"missing email", SignupForm{Email: " ", Password: "secret", ConfirmPassword: "secret"}, ErrMissingFields},
		{"missing confirmation", SignupForm{Email: "a@b.com", Password: "secret"}, ErrMissingFields},
		{"mismatch", SignupForm{Email: "a@b.com", Password: "secret", ConfirmPassword: "secreT"}, ErrPasswordMismatch},
		{"too short", SignupForm{Email: "a@b.com", Password: "12345", ConfirmPassword: "12345"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginForm_Validate(t *testing.T) {
	assert.NoError(t, LoginForm{Email: "a@b.com", Password: "x"}.Validate())
	assert.ErrorIs(t, LoginForm{Email: "a@b.com"}.Validate(), ErrMissingFields)
	assert.ErrorIs(t, LoginForm{Password: "x"}.Validate(), ErrMissingFields)
}
