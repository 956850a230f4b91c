package pointclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/primitives"
	"github.com/revent-clocks/reclock/testutil"
)

func newFixedClock(t *testing.T, lifetime int32, seed []byte) (*PointClock, *PointClockUpdater) {
	t.Helper()
	s0 := primitives.SeedFromScalar(seed)
	p0 := primitives.DerivePoint(s0)
	uuid, err := primitives.RecursiveNextPoint(p0, int(lifetime)+1)
	require.NoError(t, err)

	c := NewObserverClock(uuid, lifetime)
	u := newUpdater(seed, lifetime)
	return c, u
}

// TestS5PointClockSignedTimestamp exercises spec scenario S5.
func TestS5PointClockSignedTimestamp(t *testing.T) {
	seed := testutil.FixedSeed(0x40, 32)
	c, u := newFixedClock(t, 4, seed)

	cert, err := u.AdvanceAndSign(2, []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, c.Update(cert))

	ok, err := c.VerifySignedTimestamp(cert, []byte("hello"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifySignedTimestamp(cert, []byte("world"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPointClockHappyPath(t *testing.T) {
	seed := testutil.FixedSeed(0x41, 32)
	c, u := newFixedClock(t, 2, seed)

	state, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), state.Time)

	cert0, err := u.Advance(0)
	require.NoError(t, err)
	require.NoError(t, c.Update(cert0))

	cert2, err := u.Advance(2)
	require.NoError(t, err)
	require.NoError(t, c.Update(cert2))

	ok, err := c.Verify()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.CanBeUpdated())
}

func TestPointClockForgeryRejection(t *testing.T) {
	seed := testutil.FixedSeed(0x42, 32)
	c, u := newFixedClock(t, 3, seed)

	cert0, err := u.Advance(0)
	require.NoError(t, err)
	require.NoError(t, c.Update(cert0))

	forged := Timestamp{Time: 1}
	copy(forged.Point[:], testutil.FixedSeed(0x11, 32))

	err = c.Update(forged)
	assert.Error(t, err)

	state, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, int32(0), state.Time)
}

func TestPointClockRejectsBadSignature(t *testing.T) {
	seed := testutil.FixedSeed(0x43, 32)
	c, u := newFixedClock(t, 4, seed)

	cert, err := u.AdvanceAndSign(1, []byte("msg"))
	require.NoError(t, err)
	cert.Signature[0] ^= 0xFF

	err = c.Update(cert)
	assert.ErrorIs(t, err, clockerr.ErrInvalidSignature)
}

func TestPointClockPackUnpackRoundtrip(t *testing.T) {
	seed := testutil.FixedSeed(0x44, 32)
	c, u := newFixedClock(t, 3, seed)
	cert0, err := u.Advance(1)
	require.NoError(t, err)
	require.NoError(t, c.Update(cert0))

	packed, err := c.Pack()
	require.NoError(t, err)
	unpacked, err := Unpack(packed)
	require.NoError(t, err)

	ok, err := unpacked.Verify()
	require.NoError(t, err)
	assert.True(t, ok)

	repacked, err := unpacked.Pack()
	require.NoError(t, err)
	assert.Equal(t, packed, repacked)
}

func TestUpdaterPackUnpackRoundtrip(t *testing.T) {
	var c PointClock
	u, err := c.Setup(5, 32)
	require.NoError(t, err)

	packed := u.Pack()
	unpacked, err := UnpackUpdater(packed)
	require.NoError(t, err)

	cert, err := unpacked.Advance(0)
	require.NoError(t, err)
	ok, err := c.VerifyTimestamp(cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHappensBefore(t *testing.T) {
	seed := testutil.FixedSeed(0x45, 32)
	_, u := newFixedClock(t, 4, seed)

	cert1, err := u.Advance(1)
	require.NoError(t, err)
	cert3, err := u.Advance(3)
	require.NoError(t, err)

	assert.True(t, HappensBefore(cert1, cert3))
	assert.False(t, HappensBefore(cert3, cert1))
}

func TestAdvanceAndSignRejectsEmptyMessage(t *testing.T) {
	seed := testutil.FixedSeed(0x46, 32)
	_, u := newFixedClock(t, 2, seed)
	_, err := u.AdvanceAndSign(0, nil)
	assert.ErrorIs(t, err, clockerr.ErrEmptyMessage)
}
