// Package validate holds request input validators. Each returns the first
// violated rule as a model.ValidationError.
package validate

import (
	"regexp"

	"github.com/dreamdive/dreamdive/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 6

func Email(v string) error {
	if v == "" {
		return model.Validationf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return model.Validationf("invalid email")
	}
	return nil
}

func Password(v string) error {
	if len(v) < minPasswordLen {
		return model.Validationf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func Name(v string) error {
	if v == "" {
		return model.Validationf("name is required")
	}
	if len(v) > 100 {
		return model.Validationf("name exceeds 100 characters")
	}
	return nil
}

// Register validates registration input, surfacing the first violation.
func Register(email, password, name string) error {
	if err := Email(email); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	return Name(name)
}

// Login validates login input.
func Login(email, password string) error {
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}
