package primitives

import (
	"golang.org/x/crypto/scrypt"

	"github.com/revent-clocks/reclock/clockerr"
)

// scrypt cost parameters, matching the ones go-seald-sdk uses for its
// license-token and pre-validation-token derivations.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// SeedFromPassphrase derives a deterministic seed of the given size from a
// human-memorable passphrase and salt, using scrypt. It lets a clock owner
// regenerate a lost seed from something other than random bytes on disk, at
// the cost of the seed's entropy being bounded by the passphrase's.
func SeedFromPassphrase(passphrase, salt string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, clockerr.Wrap(clockerr.ErrInvalidSeedSize.AddDetails("got %d", size))
	}
	seed, err := scrypt.Key([]byte(passphrase), []byte(salt), scryptN, scryptR, scryptP, size)
	if err != nil {
		return nil, clockerr.Wrap(err)
	}
	return seed, nil
}
