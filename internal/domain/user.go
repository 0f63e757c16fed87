package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Role is the capability level of a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

func ParseRoleFromString(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
	}
	return r, nil
}

// User is a platform account. Role is checked directly wherever an
// admin-only action is performed; there is no implicit capability probing.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Name         string `gorm:"type:varchar(50);not null"`
	Role         Role   `gorm:"type:varchar(10);not null"`
	SchoolID     *uint
	ClubID       *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, u.Email)
	}
	if u.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, u.Role)
	}
	return nil
}

// IsAdmin reports whether the account carries the ADMIN role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
