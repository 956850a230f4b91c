package hashclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-clocks/reclock/testutil"
)

func TestVectorPackJSONRoundtrip(t *testing.T) {
	node0 := []byte("node0")
	node1 := []byte("node1")
	seed0 := testutil.FixedSeed(0x70, 16)
	u0 := newUpdater(seed0, 2)

	var v VectorHashClock
	require.NoError(t, v.Setup([32]byte{3}, [][]byte{node0, node1}, nil))

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

func TestVectorPackJSONIsSortedKeys(t *testing.T) {
	var v VectorHashClock
	require.NoError(t, v.Setup([32]byte{1}, [][]byte{[]byte("z"), []byte("a")}, nil))

	packed, err := v.PackJSON()
	require.NoError(t, err)

	// canonicaljson sorts object keys; "node_id" sorts before "uuid".
	nodeIDIdx := indexOf(string(packed), "\"node_id\"")
	uuidIdx := indexOf(string(packed), "\"uuid\"")
	assert.Greater(t, uuidIdx, -1)
	assert.Greater(t, nodeIDIdx, -1)
	assert.Less(t, nodeIDIdx, uuidIdx)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
