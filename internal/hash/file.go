package hash

import (
	"encoding/hex"
	"io"
	"os"
)

// SumFile computes the digest of a file, streaming its contents so large
// files are not loaded into memory
func SumFile(path string, algo Algorithm) (string, error) {
	h, err := algo.hasher()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
