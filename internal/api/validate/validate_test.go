package validate

import (
	"testing"

	"github.com/dreamdive/dreamdive/internal/model"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"a@b.co", true},
		{"user.name+tag@example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"trailing@dotless", false},
	}
	for _, c := range cases {
		err := Email(c.in)
		if c.ok && err != nil {
			t.Errorf("Email(%q): unexpected error %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Errorf("Email(%q): expected error", c.in)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("12345"); err == nil {
		t.Errorf("five characters must fail")
	}
	if err := Password("123456"); err != nil {
		t.Errorf("six characters must pass, got %v", err)
	}
}

func TestRegister_FirstViolationWins(t *testing.T) {
	err := Register("bad-email", "short", "")
	var ve *model.ValidationError
	if !asValidation(err, &ve) {
		t.Fatalf("want ValidationError, got %T", err)
	}
	if ve.Reason != "invalid email" {
		t.Fatalf("first violation should be the email rule, got %q", ve.Reason)
	}

	err = Register("ok@example.com", "short", "")
	if !asValidation(err, &ve) || ve.Reason != "password must be at least 6 characters" {
		t.Fatalf("second violation should be the password rule, got %v", err)
	}

	err = Register("ok@example.com", "longenough", "")
	if !asValidation(err, &ve) || ve.Reason != "name is required" {
		t.Fatalf("third violation should be the name rule, got %v", err)
	}

	if err := Register("ok@example.com", "longenough", "Amina"); err != nil {
		t.Fatalf("valid input must pass, got %v", err)
	}
}

func asValidation(err error, target **model.ValidationError) bool {
	if err == nil {
		return false
	}
	v, ok := err.(*model.ValidationError)
	if ok {
		*target = v
	}
	return ok
}
