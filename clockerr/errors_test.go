package clockerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockError(t *testing.T) {
	errA := New("TEST_ERROR_A", "errA")
	errB := New("TEST_ERROR_B", "errB")

	detailedA1 := errA.AddDetails("first")
	detailedA2 := errA.AddDetails("second")
	detailedB1 := errB.AddDetails("first")

	assert.ErrorIs(t, detailedA1, errA)
	assert.ErrorIs(t, detailedA1, detailedA2) // same code, Is ignores Details
	assert.NotErrorIs(t, detailedA1, errB)
	assert.NotErrorIs(t, detailedA1, detailedB1)

	assert.Equal(t, "TEST_ERROR_A - errA : first", detailedA1.Error())
	assert.Equal(t, "TEST_ERROR_A - errA", errA.Error())

	assert.NotErrorIs(t, detailedA1, errors.New("errA"))

	assert.Panics(t, func() {
		_ = New("TEST_ERROR_A", "duplicate")
	})
}

func TestClockErrorAddDetailsDoesNotMutateSentinel(t *testing.T) {
	sentinel := New("TEST_ERROR_IMMUTABLE", "")
	_ = sentinel.AddDetails("mutated?")
	assert.Equal(t, "", sentinel.Details)
}
