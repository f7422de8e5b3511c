package secret

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	keeper, err := NewKeeper("integration-test-secret")
	if err != nil {
		t.Fatalf("new keeper: %v", err)
	}

	sealed, err := keeper.Seal("WS7KEY4EXAMPLE")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("WS7KEY4EXAMPLE")) {
		t.Fatalf("sealed value leaks plaintext")
	}

	plain, err := keeper.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "WS7KEY4EXAMPLE" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestSealProducesDistinctCiphertexts(t *testing.T) {
	keeper, err := NewKeeper("integration-test-secret")
	if err != nil {
		t.Fatalf("new keeper: %v", err)
	}
	a, err := keeper.Seal("same-key")
	if err != nil {
		t.Fatalf("seal a: %v", err)
	}
	b, err := keeper.Seal("same-key")
	if err != nil {
		t.Fatalf("seal b: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("expected random nonces to produce distinct ciphertexts")
	}
}

func TestOpenRejectsWrongSecret(t *testing.T) {
	keeper, _ := NewKeeper("secret-one")
	other, _ := NewKeeper("secret-two")

	sealed, err := keeper.Seal("api-key")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := other.Open(sealed); err == nil {
		t.Fatalf("expected open with wrong secret to fail")
	}
}

func TestOpenRejectsTruncated(t *testing.T) {
	keeper, _ := NewKeeper("secret-one")
	if _, err := keeper.Open([]byte("short")); !errors.Is(err, ErrSealedTooShort) {
		t.Fatalf("expected ErrSealedTooShort, got %v", err)
	}
}

func TestNewKeeperRequiresSecret(t *testing.T) {
	if _, err := NewKeeper("   "); err == nil {
		t.Fatalf("expected error for blank app secret")
	}
}
