package validator

import (
	"net/http"
	"regexp"
	"strings"

	"turismo/internal/usecase"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// 認証系の入力検証。エラーはすべて400で返す
type AuthValidator struct{}

func New() *AuthValidator {
	return &AuthValidator{}
}

func (v *AuthValidator) ValidateRegister(name string, email string, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}
	if !emailRegex.MatchString(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(password) < minPasswordLength {
		return usecase.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	return nil
}

func (v *AuthValidator) ValidateLogin(email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	return nil
}

func (v *AuthValidator) ValidateGoogle(email string, name string, googleID string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" || strings.TrimSpace(googleID) == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "incomplete google account data")
	}
	return nil
}
