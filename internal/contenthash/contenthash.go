// Package contenthash validates and derives the content identifiers used as
// record keys. Identifiers are IPFS CIDs; both v0 (base58 "Qm...") and v1
// (multibase) encodings are accepted.
package contenthash

import (
	"errors"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	ErrEmpty         = errors.New("content hash is required")
	ErrInvalidFormat = errors.New("invalid content hash format")
)

// Parse checks that s is a well-formed CID and returns a copy trimmed of
// surrounding whitespace. The encoding chosen by the caller is kept as is:
// the hash is an opaque key and is never re-encoded.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	id, err := cid.Decode(s)
	if err != nil || !id.Defined() {
		return "", ErrInvalidFormat
	}
	return strings.Clone(s), nil
}

// Compute returns the CIDv1 (raw codec, sha2-256) of data.
func Compute(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}
