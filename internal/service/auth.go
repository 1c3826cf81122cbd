package service

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthService checks admin logins against the single configured operator
// credential. The configured password may be plain text or a bcrypt hash.
type AuthService struct {
	username string
	password string
}

// NewAuthService constructs an AuthService for the given credential.
func NewAuthService(username, password string) *AuthService {
	return &AuthService{username: username, password: password}
}

// Login reports whether username and password match the configured
// credential. The username is trimmed; both comparisons always run.
func (s *AuthService) Login(username, password string) bool {
	if s.username == "" || s.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username))
	if isBcryptHash(s.password) {
		err := bcrypt.CompareHashAndPassword([]byte(s.password), []byte(password))
		return userOK == 1 && err == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password))
	return userOK&passOK == 1
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return true
}
