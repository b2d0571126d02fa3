package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinLoginLength = 3
	MaxLoginLength = 64

	// MaxPasswordBytes is the longest input bcrypt accepts
	MaxPasswordBytes = 72
)

type User struct {
	ID           int64     `json:"id"`                      // Assigned by the repo on create
	Login        string    `json:"login"`                   // Unique login name
	PasswordHash string    `json:"-"`                       // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name,omitempty"`    // First name of the user
	LastName     string    `json:"last_name,omitempty"`     // Last name of the user
	APIAccessID  *int64    `json:"api_access_id,omitempty"` // Vendor API access profile linked to the user
	CreatedAt    time.Time `json:"created_at"`              // Date and time when the user registered
}

// ValidateLogin checks the login is a sensible account name: 3 to 64 characters, no spaces
func ValidateLogin(login string) error {
	if len(login) < MinLoginLength || len(login) > MaxLoginLength {
		return fmt.Errorf("login must be between %d and %d characters long", MinLoginLength, MaxLoginLength)
	}
	if strings.IndexFunc(login, unicode.IsSpace) >= 0 {
		return fmt.Errorf("login must not contain whitespace")
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long, at most MaxPasswordBytes bytes
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes long", MaxPasswordBytes)
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
