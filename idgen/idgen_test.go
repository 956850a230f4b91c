package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVectorUUIDIsRandom(t *testing.T) {
	a := NewVectorUUID()
	b := NewVectorUUID()
	assert.NotEqual(t, a, b)
}
