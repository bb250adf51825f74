package auth

import (
	"strings"
	"testing"
)

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "correct horse battery") {
		t.Fatalf("hash must not contain the raw password")
	}
	if !VerifyPassword("correct horse battery", hash) {
		t.Fatalf("original password must verify")
	}
	if VerifyPassword("correct horse batterz", hash) {
		t.Fatalf("wrong password must not verify")
	}
	if VerifyPassword("", hash) {
		t.Fatalf("empty password must not verify")
	}
}

func TestPassword_HashesAreSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}
