// Package models defines the data structures that map to database tables
// and the validation rules applied before they are written.
package models

// User is an admin account. It is not consulted by the public API; accounts
// are managed from the command line.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never serialize the hash
}

// UserInput is the validated payload for creating a user.
type UserInput struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8,max=72"` // bcrypt ignores bytes past 72
}

// Validate reports whether the input satisfies the insert rules.
func (in *UserInput) Validate() error {
	return Validate(in)
}
