package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "pw1") {
		t.Fatalf("expected correct password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPassword_DistinctDigests(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct digests for the same password, got equal")
	}
	if !VerifyPassword(h1, "same-password") || !VerifyPassword(h2, "same-password") {
		t.Fatalf("expected both digests to verify against the original password")
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	if VerifyPassword("not-a-bcrypt-digest", "pw") {
		t.Fatalf("expected malformed digest to fail verification, not panic or pass")
	}
	if VerifyPassword("", "pw") {
		t.Fatalf("expected empty digest to fail verification")
	}
}
