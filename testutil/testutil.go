// Package testutil provides the randomness helpers shared by reclock's test
// suites: a random-string generator for test identifiers, and deterministic
// seed generators used in place of crypto/rand wherever a test needs
// reproducible chain values.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
)

// GetRandomString returns a random hex string of the given length.
func GetRandomString(length int) string {
	b := make([]byte, (length+1)/2)
	if _, err := rand.Read(b); err != nil {
		panic("testutil: error generating random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)[:length]
}

// FixedSeed returns an n-byte slice filled with tag, repeated. Tests use it
// in place of a random seed so chain values (and the scenarios in spec.md
// §8) are reproducible and reviewer-legible: FixedSeed(0x00, 16) is
// "sixteen zero bytes", FixedSeed(0x11, 32) is "0x11 repeated 32 times".
func FixedSeed(tag byte, n int) []byte {
	seed := make([]byte, n)
	for i := range seed {
		seed[i] = tag
	}
	return seed
}
