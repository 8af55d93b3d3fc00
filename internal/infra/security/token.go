package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// defaultTokenBytes of entropy encode to 43 URL-safe characters, the
// bearer token handed out at login and OTP verification.
const defaultTokenBytes = 32

// RandomTokenGenerator mints opaque session tokens from the OS entropy
// pool. The zero value is ready to use.
type RandomTokenGenerator struct {
	Size int
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	size := g.Size
	if size <= 0 {
		size = defaultTokenBytes
	}
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("security: session token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
