// Package idgen generates vector-clock uuids for callers that don't want to
// derive one deterministically from their nodes' own uuids (see
// hashclock.DeriveVectorUUID / pointclock.DeriveVectorUUID). Grounded on the
// google/uuid request-id pattern used elsewhere in the retrieved corpus
// (v.io/v23/requestid and filecoin-project-venus's tools/seed), adapted here
// to produce a 32-byte vector identifier rather than a request-scoped id.
package idgen

import (
	"github.com/google/uuid"

	"github.com/revent-clocks/reclock/primitives"
)

// NewVectorUUID returns a fresh random 32-byte vector identifier: SHA-256 of
// a randomly generated RFC 4122 UUID. Two callers that both want a random,
// effectively collision-free vector uuid (rather than one derived from node
// uuids) can use this instead of rolling their own randomness.
func NewVectorUUID() [32]byte {
	random := uuid.New()
	return primitives.Hash(random[:])
}
