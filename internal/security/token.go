package security

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewToken returns a bearer credential: 256 bits from the CSPRNG, hex-encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewIden returns a new record identifier.
func NewIden() string {
	return uuid.NewString()
}
