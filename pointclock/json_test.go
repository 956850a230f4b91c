package pointclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-clocks/reclock/testutil"
)

func TestVectorPackJSONRoundtrip(t *testing.T) {
	node0 := []byte("node0")
	node1 := []byte("node1")
	seed0 := testutil.FixedSeed(0x71, 32)
	u0 := newUpdater(seed0, 2)

	var v VectorPointClock
	require.NoError(t, v.Setup([32]byte{4}, [][]byte{node0, node1}, nil))

	cert0, err := u0.Advance(0)
	require.NoError(t, err)
	require.NoError(t, v.Update(v.Advance(node0, cert0)))

	packed, err := v.PackJSON()
	require.NoError(t, err)
	assert.Contains(t, string(packed), "\"node_id\"")

	unpacked, err := UnpackVectorJSON(packed)
	require.NoError(t, err)

	orig, err := v.Read()
	require.NoError(t, err)
	ts, err := unpacked.Read()
	require.NoError(t, err)
	assert.Equal(t, orig, ts)
}
