package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("pass123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("pass123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct digests for the same input")
	}
	if a == "pass123" {
		t.Fatalf("digest must not equal plaintext")
	}
	if !h.Verify("pass123", a) || !h.Verify("pass123", b) {
		t.Fatalf("expected both digests to verify")
	}
}

func TestBcryptHasher_VerifyRejects(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	digest, _ := h.Hash("pass123")

	if h.Verify("pass124", digest) {
		t.Fatalf("wrong password verified")
	}
	if h.Verify("pass123", "not-a-digest") {
		t.Fatalf("garbage digest verified")
	}
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
