package hashclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/testutil"
)

// TestS4VectorHashClockConcurrency exercises spec scenario S4.
func TestS4VectorHashClockConcurrency(t *testing.T) {
	node0 := []byte("node0")
	node1 := []byte("node1")

	seed0 := testutil.FixedSeed(0x10, 16)
	seed1 := testutil.FixedSeed(0x20, 16)
	u0 := newUpdater(seed0, 1)
	u1 := newUpdater(seed1, 3)

	var vectorUUID [32]byte
	copy(vectorUUID[:], testutil.FixedSeed(0x99, 32))

	var vA VectorHashClock
	require.NoError(t, vA.Setup(vectorUUID, [][]byte{node0, node1}, nil))
	var vB VectorHashClock
	require.NoError(t, vB.Setup(vectorUUID, [][]byte{node0, node1}, nil))

	cert0, err := u0.Advance(1)
	require.NoError(t, err)
	cert1, err := u1.Advance(1)
	require.NoError(t, err)

	require.NoError(t, vA.Update(vA.Advance(node0, cert0)))
	require.NoError(t, vB.Update(vB.Advance(node1, cert1)))

	tsA, err := vA.Read()
	require.NoError(t, err)
	tsB, err := vB.Read()
	require.NoError(t, err)

	assert.True(t, VectorAreConcurrent(tsA, tsB))
	assert.False(t, VectorHappensBefore(tsA, tsB))
	assert.False(t, VectorHappensBefore(tsB, tsA))

	initial := tsA
	initial.Entries = append([]VectorEntry(nil), tsA.Entries...)
	for i := range initial.Entries {
		initial.Entries[i].Time = -1
	}

	require.NoError(t, vA.Update(vA.Advance(node1, cert1)))
	require.NoError(t, vB.Update(vB.Advance(node0, cert0)))

	finalA, err := vA.Read()
	require.NoError(t, err)
	finalB, err := vB.Read()
	require.NoError(t, err)

	assert.Equal(t, finalA, finalB)
	assert.True(t, VectorHappensBefore(initial, finalA))
}

func TestVectorUnknownNode(t *testing.T) {
	var v VectorHashClock
	require.NoError(t, v.Setup([32]byte{1}, [][]byte{[]byte("a")}, nil))
	err := v.Update(v.Advance([]byte("b"), Timestamp{Time: 0}))
	assert.ErrorIs(t, err, clockerr.ErrUnknownNode)
}

func TestVectorSetupRejectsDuplicateNode(t *testing.T) {
	var v VectorHashClock
	err := v.Setup([32]byte{1}, [][]byte{[]byte("a"), []byte("a")}, nil)
	assert.ErrorIs(t, err, clockerr.ErrDuplicateNodeID)
}

func TestVectorSetupRejectsEmptyNodeList(t *testing.T) {
	var v VectorHashClock
	err := v.Setup([32]byte{1}, nil, nil)
	assert.ErrorIs(t, err, clockerr.ErrEmptyNodeID)
}

func TestVectorPackUnpackRoundtrip(t *testing.T) {
	node0 := []byte("node0")
	node1 := []byte("node1")
	seed0 := testutil.FixedSeed(0x30, 16)
	u0 := newUpdater(seed0, 2)

	var v VectorHashClock
	require.NoError(t, v.Setup([32]byte{7}, [][]byte{node0, node1}, nil))

	cert0, err := u0.Advance(0)
	require.NoError(t, err)
	require.NoError(t, v.Update(v.Advance(node0, cert0)))

	packed, err := v.Pack()
	require.NoError(t, err)

	unpacked, err := UnpackVector(packed)
	require.NoError(t, err)

	ts, err := unpacked.Read()
	require.NoError(t, err)
	orig, err := v.Read()
	require.NoError(t, err)
	assert.Equal(t, orig, ts)

	repacked, err := unpacked.Pack()
	require.NoError(t, err)
	assert.Equal(t, packed, repacked)
}

func TestDeriveVectorUUIDIsOrderIndependent(t *testing.T) {
	a := []byte("aaaa")
	b := []byte("bbbb")
	u1 := DeriveVectorUUID(a, b)
	u2 := DeriveVectorUUID(b, a)
	assert.Equal(t, u1, u2)
}
