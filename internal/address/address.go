// Package address normalizes account addresses of principals (owners and
// grantees). Two addresses that differ only in letter case name the same
// principal; Normalize collapses them to lower case.
package address

import (
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	prefix = "0x"
	// hexLen is the number of hex digits in a 20-byte address.
	hexLen = 40
)

var (
	ErrEmpty         = errors.New("address is required")
	ErrInvalidFormat = errors.New("invalid address format")
)

// Normalize validates s and returns its canonical lower-case form.
// Surrounding whitespace is ignored; the 0x prefix is required.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	if len(s) != len(prefix)+hexLen || !strings.EqualFold(s[:2], prefix) {
		return "", ErrInvalidFormat
	}
	body := strings.ToLower(s[2:])
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrInvalidFormat
	}
	return prefix + body, nil
}

// Equal reports whether a and b name the same principal. Malformed input
// is never equal to anything.
func Equal(a, b string) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	if err != nil {
		return false
	}
	return na == nb
}

// Checksum renders a in EIP-55 mixed case. Display only; comparisons use
// Normalize.
func Checksum(a string) (string, error) {
	n, err := Normalize(a)
	if err != nil {
		return "", err
	}
	body := n[2:]

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(body))
	digest := h.Sum(nil)

	out := []byte(body)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return prefix + string(out), nil
}
