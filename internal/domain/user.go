package domain

import (
	"strings"
	"time"
)

// User is an account that borrows instances and tracks reading status.
type User struct {
	Entity
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role,omitempty"`
	Photo        string     `json:"photo,omitempty"`
}

// FullName returns "Last, First" when both parts are present, else "".
func (u *User) FullName() string {
	first, last := strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName)
	if first == "" || last == "" {
		return ""
	}
	return last + ", " + first
}
