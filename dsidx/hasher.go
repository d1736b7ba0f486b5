package dsidx

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/colorhash"
)

// GetFileHash returns the SHA-256 content hash for the file at the given
// path on the OS filesystem.
func GetFileHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return GetHash(f)
}

// GetHash computes the SHA-256 hash of everything readable from r and
// returns it as a lowercase hex string.
func GetHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// HashBucket maps a content hash to one of 1000 stable buckets. Buckets
// spread hash-addressed entries across directories so no single listing
// grows unbounded.
func HashBucket(hash string) int {
	return colorhash.HashString(hash) % 1000
}
