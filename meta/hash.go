package meta

import (
	"encoding/hex"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashPattern matches a well-formed hash key.
var HashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Hash returns the 0x-prefixed Keccak-256 digest of data.
func Hash(data []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)

	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// IsHash reports whether s is a well-formed hash key.
func IsHash(s string) bool {
	return HashPattern.MatchString(s)
}

// NormalizeHash lower-cases a hash key so lookups are case-insensitive.
func NormalizeHash(s string) string {
	return strings.ToLower(s)
}

// HashBytes decodes a well-formed hash key into its 32 bytes.
func HashBytes(s string) ([]byte, error) {
	if !IsHash(s) {
		return nil, ErrInvalidHash.With(slog.String("hash", s))
	}

	return hex.DecodeString(s[2:])
}
