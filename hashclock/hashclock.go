// Package hashclock implements the SHA-256 hash-chain reverse-entropy clock:
// HashClock (the verifiable chain), HashClockUpdater (the secret-holding
// advancer), and VectorHashClock (per-node HashClocks composed into a
// causality vector).
package hashclock

import (
	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/codec"
	"github.com/revent-clocks/reclock/primitives"
	"github.com/revent-clocks/reclock/utils"
)

// Timestamp is a HashClock certificate: a chain position an updater issues
// and a clock consumes. Time -1 denotes the genesis state, whose digest
// equals the clock's uuid.
type Timestamp struct {
	Time   int32
	Digest [32]byte
}

// HashClock is a verifiable one-way chain anchored at uuid. Nothing but the
// uuid is needed to validate every certificate the corresponding updater
// will ever issue.
type HashClock struct {
	lifetime int32 // -1 means the cap is unknown (unset for a vector-owned node)
	time     int32
	uuid     [32]byte
	digest   [32]byte
	setUp    bool
}

// Setup materializes a fresh chain of the given lifetime and seed size,
// returning the updater that holds its secret seed. c is left in its
// genesis state, (-1, uuid).
func (c *HashClock) Setup(lifetime int32, seedSize int, opts ...Option) (*HashClockUpdater, error) {
	if c.setUp {
		return nil, clockerr.Wrap(clockerr.ErrAlreadySetUp)
	}
	if lifetime < 0 {
		return nil, clockerr.Wrap(clockerr.ErrNegativeLifetime)
	}
	seed, err := utils.GenerateRandomBytes(seedSize)
	if err != nil {
		return nil, clockerr.Wrap(err)
	}

	uuid := primitives.RecursiveHash(seed, int(lifetime)+1)
	copy(c.uuid[:], uuid)
	copy(c.digest[:], uuid)
	c.lifetime = lifetime
	c.time = -1
	c.setUp = true

	return newUpdater(seed, lifetime, opts...), nil
}

// NewObserverClock builds a HashClock for an observer that knows only a
// published uuid, with the optional declared lifetime (pass -1 if unknown,
// e.g. for a VectorHashClock node whose uuid was supplied up front but whose
// lifetime was not).
func NewObserverClock(uuid [32]byte, lifetime int32) *HashClock {
	return &HashClock{uuid: uuid, digest: uuid, lifetime: lifetime, time: -1, setUp: true}
}

// UUID returns the clock's terminal identifier.
func (c *HashClock) UUID() [32]byte {
	return c.uuid
}

// Read returns the clock's current state.
func (c *HashClock) Read() (Timestamp, error) {
	if !c.setUp {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	return Timestamp{Time: c.time, Digest: c.digest}, nil
}

// chainCheck reports whether cert is a valid forward-in-time successor of
// the clock's current state, without mutating anything.
func (c *HashClock) chainCheck(cert Timestamp) error {
	if cert.Time <= c.time {
		return clockerr.Wrap(clockerr.ErrUpdateNotStrictlyLater)
	}
	if c.lifetime >= 0 && cert.Time > c.lifetime {
		return clockerr.Wrap(clockerr.ErrTimeExceedsLifetime)
	}
	k := int(cert.Time - c.time)
	calc := primitives.RecursiveHash(cert.Digest[:], k)
	if !utils.BytesAreSame(calc, c.digest[:]) {
		return clockerr.Wrap(clockerr.ErrChainMismatch)
	}
	return nil
}

// Update applies cert, advancing the clock's state. On failure, state is
// left unchanged (strong exception safety).
func (c *HashClock) Update(cert Timestamp) error {
	if !c.setUp {
		return clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	if err := c.chainCheck(cert); err != nil {
		return err
	}
	c.time = cert.Time
	c.digest = cert.Digest
	return nil
}

// VerifyTimestamp reports whether cert would be accepted by Update, without
// mutating the clock.
func (c *HashClock) VerifyTimestamp(cert Timestamp) (bool, error) {
	if !c.setUp {
		return false, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	return c.chainCheck(cert) == nil, nil
}

// Verify re-derives the clock's uuid from its current state and checks it
// for self-consistency. A deserialized clock that fails Verify is corrupt
// or was forged.
func (c *HashClock) Verify() (bool, error) {
	if !c.setUp {
		return false, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	calc := primitives.RecursiveHash(c.digest[:], int(c.time)+1)
	return utils.BytesAreSame(calc, c.uuid[:]), nil
}

// HasTerminated reports whether the clock has reached its declared
// lifetime. A clock with an unknown lifetime (lifetime < 0) never reports
// terminated.
func (c *HashClock) HasTerminated() bool {
	return c.lifetime >= 0 && c.time == c.lifetime
}

// CanBeUpdated reports whether a further advancement is still possible.
func (c *HashClock) CanBeUpdated() bool {
	return c.lifetime < 0 || c.time < c.lifetime
}

// HappensBefore reports whether certificate a causally precedes b on the
// same chain: a is strictly earlier, and hashing forward from b's digest
// the gap number of times reaches a's digest.
func HappensBefore(a, b Timestamp) bool {
	if a.Time >= b.Time {
		return false
	}
	calc := primitives.RecursiveHash(b.Digest[:], int(b.Time-a.Time))
	return utils.BytesAreSame(calc, a.Digest[:])
}

// Pack encodes the clock per the HashClock wire format:
// tag || lifetime(u32) || time(i32) || uuid(32) || digest(32).
func (c *HashClock) Pack() ([]byte, error) {
	if !c.setUp {
		return nil, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	w := codec.NewWriter(codec.TagHashClock)
	w.PutUint32(uint32(c.lifetime))
	w.PutInt32(c.time)
	w.PutBytes(c.uuid[:])
	w.PutBytes(c.digest[:])
	return w.Bytes(), nil
}

// Unpack decodes a HashClock packed by Pack.
func Unpack(data []byte) (*HashClock, error) {
	r := codec.NewReader(data)
	if err := r.ReadTag(codec.TagHashClock); err != nil {
		return nil, err
	}
	lifetime, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	t, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	uuid, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	digest, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	if !r.AtEnd() {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("trailing bytes after HashClock payload"))
	}

	c := &HashClock{lifetime: int32(lifetime), time: t, setUp: true}
	copy(c.uuid[:], uuid)
	copy(c.digest[:], digest)
	return c, nil
}
