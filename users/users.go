package users

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType is the closed set of roles a principal can hold.
type RoleType string

const (
	RoleOwner  RoleType = "OWNER"  // Manages rooms and lease contracts
	RoleTenant RoleType = "TENANT" // Sees their own contracts and vacant rooms
	RoleTech   RoleType = "TECH"   // Maintenance staff, no console yet
)

// Roles lists every valid role in display order.
var Roles = []RoleType{RoleOwner, RoleTenant, RoleTech}

// ParseRole accepts the wire spelling of a role, case-insensitively.
func ParseRole(s string) (RoleType, error) {
	r := RoleType(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r RoleType) Valid() bool {
	switch r {
	case RoleOwner, RoleTenant, RoleTech:
		return true
	default:
		return false
	}
}

func (r RoleType) String() string {
	return string(r)
}

// User is the authenticated principal. The client keeps exactly one of these
// per session; the demo backend stores one per account.
type User struct {
	ID           int      `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         RoleType `json:"role"`
	PasswordHash string   `json:"-"` // never serialize
}

// Validate checks the fields a persisted principal must carry.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is empty")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("user role %q is not valid", u.Role)
	}
	return nil
}

// DisplayName prefers the full name and falls back to the email.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	return u.Email
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
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

// CheckPassword compares password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
