// Package utils holds small generic helpers shared across reclock packages:
// random byte generation, constant-time comparison, and a Set used to
// detect duplicate vector-clock node ids.
package utils

import (
	"crypto/rand"
	"crypto/subtle"

	"github.com/ztrue/tracerr"
)

// GenerateRandomBytes returns n cryptographically random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return b, nil
}

// BytesAreSame is a constant-time equality check for two byte strings of
// possibly different length.
func BytesAreSame(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Set implements Add, Remove & Has over a comparable generic type, backed
// by a map[T]struct{} for O(1) membership.
type Set[T comparable] map[T]struct{}

func (s Set[T]) Add(element T) {
	s[element] = struct{}{}
}

func (s Set[T]) Remove(element T) {
	delete(s, element)
}

func (s Set[T]) Has(element T) bool {
	_, ok := s[element]
	return ok
}
