package domain

import "strings"

// MinPasswordLen is enforced locally on registration and password change.
const MinPasswordLen = 6

// PasswordChange is attached to a profile edit when the user elects to change
// their password. Confirm is collected alongside NewPassword but is never
// transmitted; it exists only for the local equality check.
type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
	Confirm         string
}

// ProfileEdit carries a profile update. Photo replaces the stored photo when
// non-empty.
type ProfileEdit struct {
	Name           string
	Email          string
	Photo          string
	PasswordChange *PasswordChange
}

// Validate trims and checks the edit locally. Failures here mean the request
// is never dispatched.
func (e *ProfileEdit) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	if e.Name == "" || e.Email == "" {
		return Validation("name and email are required")
	}
	if pc := e.PasswordChange; pc != nil {
		if len(pc.NewPassword) < MinPasswordLen {
			return Validation("new password must be at least 6 characters")
		}
		if pc.NewPassword != pc.Confirm {
			return Validation("password confirmation does not match")
		}
	}
	return nil
}
