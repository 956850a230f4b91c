// Package pointclock implements the Ed25519 point-chain reverse-entropy
// clock: PointClock (the verifiable chain), PointClockUpdater (the
// secret-holding advancer, which can also attach a message signature to a
// certificate), and VectorPointClock (per-node PointClocks composed into a
// causality vector, with optional federation of already-established node
// uuids).
package pointclock

import (
	"bytes"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/codec"
	"github.com/revent-clocks/reclock/primitives"
	"github.com/revent-clocks/reclock/utils"
)

// Timestamp is a PointClock certificate. Message and Signature are present
// only for a signed certificate produced by PointClockUpdater.AdvanceAndSign.
type Timestamp struct {
	Time      int32
	Point     [32]byte
	Message   []byte
	Signature []byte
}

// Signed reports whether the certificate carries a message signature.
func (t Timestamp) Signed() bool {
	return len(t.Signature) > 0
}

// PointClock is a verifiable Ed25519 point chain anchored at uuid. Unlike
// HashClock, it has no termination argument: the chain is well-defined at
// any integer depth, so lifetime is enforced purely as a policy bound, not
// a hash-exhaustion proof.
type PointClock struct {
	lifetime int32 // -1 means the cap is unknown (unset for a vector-owned node)
	time     int32
	uuid     [32]byte
	point    [32]byte
	setUp    bool
}

// Setup materializes a fresh chain of the given lifetime and seed size,
// returning the updater that holds its secret seed. c is left in its
// genesis state, (-1, uuid).
func (c *PointClock) Setup(lifetime int32, seedSize int, opts ...Option) (*PointClockUpdater, error) {
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

	s0 := primitives.SeedFromScalar(seed)
	p0 := primitives.DerivePoint(s0)
	uuid, err := primitives.RecursiveNextPoint(p0, int(lifetime)+1)
	if err != nil {
		return nil, clockerr.Wrap(err)
	}

	c.uuid = uuid
	c.point = uuid
	c.lifetime = lifetime
	c.time = -1
	c.setUp = true

	return newUpdater(seed, lifetime, opts...), nil
}

// NewObserverClock builds a PointClock for an observer that knows only a
// published uuid, with the optional declared lifetime (pass -1 if unknown).
func NewObserverClock(uuid [32]byte, lifetime int32) *PointClock {
	return &PointClock{uuid: uuid, point: uuid, lifetime: lifetime, time: -1, setUp: true}
}

// UUID returns the clock's terminal point.
func (c *PointClock) UUID() [32]byte {
	return c.uuid
}

// Read returns the clock's current state.
func (c *PointClock) Read() (Timestamp, error) {
	if !c.setUp {
		return Timestamp{}, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	return Timestamp{Time: c.time, Point: c.point}, nil
}

// chainCheck reports whether cert is a valid forward-in-time successor of
// the clock's current state, additionally verifying an attached signature
// when present, without mutating anything.
func (c *PointClock) chainCheck(cert Timestamp) error {
	if cert.Time <= c.time {
		return clockerr.Wrap(clockerr.ErrUpdateNotStrictlyLater)
	}
	if c.lifetime >= 0 && cert.Time > c.lifetime {
		return clockerr.Wrap(clockerr.ErrTimeExceedsLifetime)
	}
	k := int(cert.Time - c.time)
	calc, err := primitives.RecursiveNextPoint(cert.Point, k)
	if err != nil {
		return err
	}
	if calc != c.point {
		return clockerr.Wrap(clockerr.ErrChainMismatch)
	}
	if cert.Signed() {
		if err := primitives.Verify(cert.Point, cert.Message, cert.Signature); err != nil {
			return err
		}
	}
	return nil
}

// Update applies cert, advancing the clock's state. On failure, state is
// left unchanged (strong exception safety).
func (c *PointClock) Update(cert Timestamp) error {
	if !c.setUp {
		return clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	if err := c.chainCheck(cert); err != nil {
		return err
	}
	c.time = cert.Time
	c.point = cert.Point
	return nil
}

// VerifyTimestamp reports whether cert would be accepted by Update, without
// mutating the clock.
func (c *PointClock) VerifyTimestamp(cert Timestamp) (bool, error) {
	if !c.setUp {
		return false, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	return c.chainCheck(cert) == nil, nil
}

// VerifySignedTimestamp checks both the chain and the signature, and that
// the certificate's message matches expectedMessage exactly. The chain check
// is against the clock's uuid (stepping next_p time+1 times from the
// certificate's point), so a certificate the clock has already applied
// still verifies.
func (c *PointClock) VerifySignedTimestamp(cert Timestamp, expectedMessage []byte) (bool, error) {
	if !c.setUp {
		return false, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	if !cert.Signed() {
		return false, nil
	}
	if !bytes.Equal(cert.Message, expectedMessage) {
		return false, nil
	}
	if cert.Time < 0 || (c.lifetime >= 0 && cert.Time > c.lifetime) {
		return false, nil
	}
	calc, err := primitives.RecursiveNextPoint(cert.Point, int(cert.Time)+1)
	if err != nil || calc != c.uuid {
		return false, nil
	}
	return primitives.Verify(cert.Point, cert.Message, cert.Signature) == nil, nil
}

// Verify re-derives the clock's uuid from its current state and checks it
// for self-consistency.
func (c *PointClock) Verify() (bool, error) {
	if !c.setUp {
		return false, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	calc, err := primitives.RecursiveNextPoint(c.point, int(c.time)+1)
	if err != nil {
		return false, err
	}
	return calc == c.uuid, nil
}

// CanBeUpdated reports whether a further advancement is still possible.
// PointClock has no hash-exhaustion argument for termination, so this is
// purely a policy bound against the declared lifetime.
func (c *PointClock) CanBeUpdated() bool {
	return c.lifetime < 0 || c.time < c.lifetime
}

// HappensBefore reports whether certificate a causally precedes b on the
// same chain: a is strictly earlier, and stepping next_p forward from b's
// point the gap number of times reaches a's point.
func HappensBefore(a, b Timestamp) bool {
	if a.Time >= b.Time {
		return false
	}
	calc, err := primitives.RecursiveNextPoint(b.Point, int(b.Time-a.Time))
	if err != nil {
		return false
	}
	return calc == a.Point
}

// Pack encodes the clock per the PointClock wire format:
// tag || lifetime(u32) || time(i32) || uuid(32) || point(32).
func (c *PointClock) Pack() ([]byte, error) {
	if !c.setUp {
		return nil, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	w := codec.NewWriter(codec.TagPointClock)
	w.PutUint32(uint32(c.lifetime))
	w.PutInt32(c.time)
	w.PutBytes(c.uuid[:])
	w.PutBytes(c.point[:])
	return w.Bytes(), nil
}

// Unpack decodes a PointClock packed by Pack.
func Unpack(data []byte) (*PointClock, error) {
	r := codec.NewReader(data)
	if err := r.ReadTag(codec.TagPointClock); err != nil {
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
	point, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	if !r.AtEnd() {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("trailing bytes after PointClock payload"))
	}

	c := &PointClock{lifetime: int32(lifetime), time: t, setUp: true}
	copy(c.uuid[:], uuid)
	copy(c.point[:], point)
	return c, nil
}
