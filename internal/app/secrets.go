package app

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveSecret expands the app secret into a purpose-bound key. Session and
// CSRF keys come from the same APP_SECRET but never equal each other.
func DeriveSecret(appSecret, purpose string) (string, error) {
	reader := hkdf.New(sha256.New, []byte(appSecret), nil, []byte(purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return "", fmt.Errorf("derive %s secret: %w", purpose, err)
	}
	return base64.RawStdEncoding.EncodeToString(key), nil
}
