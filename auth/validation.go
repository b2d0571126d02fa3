package auth

import (
	"strings"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/users"
)

// Validator holds the input checks for the auth endpoints
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegistration checks a new account request
func (v *Validator) ValidateRegistration(req RegisterRequest) error {
	if err := users.ValidateLogin(req.Login); err != nil {
		return err
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}
	if req.APIAccessID != nil && *req.APIAccessID <= 0 {
		return errors.New("api_access_id must be positive")
	}
	return nil
}

// ValidateUserCredentials validates login credentials
func (v *Validator) ValidateUserCredentials(login, password string) error {
	if strings.TrimSpace(login) == "" {
		return errors.New("username is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	return nil
}

// ValidateAccessToken validates access token format and presence
func (v *Validator) ValidateAccessToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("access token is required")
	}

	// Basic format check - should be a JWT (3 parts separated by dots)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return errors.New("invalid token format: must be a valid JWT")
	}

	for i, part := range parts {
		if len(part) == 0 {
			return errors.Errorf("invalid token format: part %d is empty", i+1)
		}
	}

	return nil
}
