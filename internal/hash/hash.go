package hash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Algorithm identifies a supported digest algorithm
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	MD5    Algorithm = "md5"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrEmptyInput           = errors.New("empty input")
	ErrMalformedChecksum    = errors.New("malformed checksum")
)

// Parse normalizes an algorithm name from a request into an Algorithm.
// Accepts "sha256"/"sha-256" and "md5" in any case.
func Parse(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sha256", "sha-256":
		return SHA256, nil
	case "md5":
		return MD5, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// HexLength returns the length of a hex-encoded digest for the algorithm
// (64 for SHA-256, 32 for MD5)
func (a Algorithm) HexLength() int {
	switch a {
	case SHA256:
		return sha256.Size * 2
	case MD5:
		return md5.Size * 2
	}
	return 0
}

func (a Algorithm) hasher() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case MD5:
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, a)
	}
}

// Sum computes the lowercase hex digest of data
func Sum(data []byte, algo Algorithm) (string, error) {
	h, err := algo.hasher()
	if err != nil {
		return "", err
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verification is the outcome of comparing a computed digest against a
// caller-supplied checksum.
type Verification struct {
	Match     bool      `json:"match"`
	Computed  string    `json:"computed"`
	Expected  string    `json:"expected"`
	Algorithm Algorithm `json:"algorithm"`
}

// Verify hashes data and compares the digest against expected. The
// comparison is case-insensitive; the checksum must be valid hex of the
// right length for the algorithm.
func Verify(data []byte, algo Algorithm, expected string) (*Verification, error) {
	normalized := strings.ToLower(strings.TrimSpace(expected))
	if err := validateChecksum(normalized, algo); err != nil {
		return nil, err
	}

	computed, err := Sum(data, algo)
	if err != nil {
		return nil, err
	}

	return &Verification{
		Match:     computed == normalized,
		Computed:  computed,
		Expected:  normalized,
		Algorithm: algo,
	}, nil
}

func validateChecksum(sum string, algo Algorithm) error {
	if want := algo.HexLength(); len(sum) != want {
		return fmt.Errorf("%w: expected %d hex characters, got %d", ErrMalformedChecksum, want, len(sum))
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return fmt.Errorf("%w: not a hex string", ErrMalformedChecksum)
	}
	return nil
}
