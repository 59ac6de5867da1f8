package domain

import "strings"

// User is the identity returned by the remote store on login.
type User struct {
	ID    ID     `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Identity is the authenticated user together with the bearer token.
type Identity struct {
	User
	Token string `json:"token"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
