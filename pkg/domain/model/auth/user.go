package auth

import (
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"
)

// User is an account allowed to sign in. Accounts are provisioned via the
// users configuration file; PasswordHash is a bcrypt hash.
type User struct {
	ID           string `toml:"id" json:"id"`
	Email        string `toml:"email" json:"email"`
	Name         string `toml:"name" json:"name"`
	PasswordHash string `toml:"password_hash" json:"-" masq:"secret"`
}

// Validate checks structural validity of the user record.
func (u *User) Validate() error {
	if u.ID == "" {
		return goerr.New("user ID is required")
	}
	if u.Email == "" {
		return goerr.New("user email is required", goerr.V("id", u.ID))
	}
	if u.PasswordHash == "" {
		return goerr.New("user password hash is required", goerr.V("id", u.ID))
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return goerr.Wrap(err, "password mismatch")
	}
	return nil
}

// SetPassword replaces the stored hash with one derived from password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}
