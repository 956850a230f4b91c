package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomBytes(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32, 64} {
		b, err := GenerateRandomBytes(n)
		require.NoError(t, err)
		assert.Len(t, b, n)
	}
}

func TestBytesAreSame(t *testing.T) {
	assert.True(t, BytesAreSame([]byte("abc"), []byte("abc")))
	assert.False(t, BytesAreSame([]byte("abc"), []byte("abd")))
	assert.False(t, BytesAreSame([]byte("abc"), []byte("ab")))
	assert.True(t, BytesAreSame(nil, nil))
	assert.True(t, BytesAreSame([]byte{}, nil))
}

func TestSet(t *testing.T) {
	s := Set[string]{}
	assert.False(t, s.Has("a"))
	s.Add("a")
	assert.True(t, s.Has("a"))
	s.Remove("a")
	assert.False(t, s.Has("a"))
}
