package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Keeper seals short secrets (the shop webservice API key) before they are
// stored. The key is derived from the application secret, so a copied
// database file alone does not expose stored credentials.
type Keeper struct {
	key []byte
}

var ErrSealedTooShort = errors.New("sealed value is too short")

func NewKeeper(appSecret string) (*Keeper, error) {
	appSecret = strings.TrimSpace(appSecret)
	if appSecret == "" {
		return nil, errors.New("app secret is required")
	}
	sum := sha256.Sum256([]byte(appSecret))
	return &Keeper{key: sum[:]}, nil
}

// Seal encrypts plain and returns nonce-prefixed ciphertext.
func (k *Keeper) Seal(plain string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(k.key)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, []byte(plain), nil), nil
}

// Open decrypts a value produced by Seal.
func (k *Keeper) Open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(k.key)
	if err != nil {
		return "", fmt.Errorf("init aead: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", ErrSealedTooShort
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}
