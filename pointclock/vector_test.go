package pointclock

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/testutil"
)

// TestS6VectorPointClockFederation exercises spec scenario S6.
func TestS6VectorPointClockFederation(t *testing.T) {
	const nodeCount = 5
	var nodeIDs [][]byte
	var updaters []*PointClockUpdater
	uuids := map[string][32]byte{}
	var nodeUUIDs [][]byte

	for i := 0; i < nodeCount; i++ {
		id := []byte(fmt.Sprintf("node%d", i))
		seed := testutil.FixedSeed(byte(0x50+i), 32)
		c, u := newFixedClock(t, 256, seed)

		nodeIDs = append(nodeIDs, id)
		updaters = append(updaters, u)
		uuids[string(id)] = c.uuid
		nodeUUIDs = append(nodeUUIDs, c.uuid[:])
	}

	vectorUUID := DeriveVectorUUID(nodeUUIDs...)

	observers := make([]*VectorPointClock, 3)
	for i := range observers {
		var v VectorPointClock
		require.NoError(t, v.Setup(vectorUUID, nodeIDs, uuids))
		observers[i] = &v
	}

	initial, err := observers[0].Read()
	require.NoError(t, err)

	message := []byte("federated update")
	var certs []NodeCertificate
	for i, u := range updaters {
		cert, err := u.AdvanceAndSign(1, message)
		require.NoError(t, err)
		certs = append(certs, NodeCertificate{NodeID: nodeIDs[i], Cert: cert})
	}

	for _, v := range observers {
		for _, nc := range certs {
			require.NoError(t, v.Update(nc))
		}
	}

	first, err := observers[0].Read()
	require.NoError(t, err)
	for _, v := range observers[1:] {
		ts, err := v.Read()
		require.NoError(t, err)
		assert.Equal(t, first, ts)
	}

	assert.True(t, VectorHappensBefore(initial, first))
}

func TestVectorUnknownNode(t *testing.T) {
	var v VectorPointClock
	require.NoError(t, v.Setup([32]byte{1}, [][]byte{[]byte("a")}, nil))
	err := v.Update(v.Advance([]byte("b"), Timestamp{Time: 0}))
	assert.ErrorIs(t, err, clockerr.ErrUnknownNode)
}

func TestVectorPackUnpackRoundtrip(t *testing.T) {
	node0 := []byte("node0")
	node1 := []byte("node1")
	seed0 := testutil.FixedSeed(0x60, 32)
	u0 := newUpdater(seed0, 2)

	var v VectorPointClock
	require.NoError(t, v.Setup([32]byte{9}, [][]byte{node0, node1}, nil))

	cert0, err := u0.Advance(0)
	require.NoError(t, err)
	require.NoError(t, v.Update(v.Advance(node0, cert0)))

	packed, err := v.Pack()
	require.NoError(t, err)

	unpacked, err := UnpackVector(packed)
	require.NoError(t, err)

	orig, err := v.Read()
	require.NoError(t, err)
	ts, err := unpacked.Read()
	require.NoError(t, err)
	assert.Equal(t, orig, ts)
}
