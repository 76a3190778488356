package dataset

import (
	"errors"
	"os"
)

// ErrNotFound indicates that none of the candidate paths exist.
var ErrNotFound = errors.New("file not found in any candidate location")

// Locate returns the first existing path from candidates.
func Locate(candidates []string) (string, error) {
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNotFound
}
