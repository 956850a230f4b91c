package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/revent-clocks/reclock/testutil"
)

func TestNewLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	instanceName := testutil.GetRandomString(8)
	opts := OwnerOptions{LogLevel: zerolog.DebugLevel, LogNoColor: true, InstanceName: instanceName, LogWriter: &buf}

	logger := opts.NewLogger()
	logger.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), instanceName)
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := OwnerOptions{LogLevel: zerolog.WarnLevel, LogWriter: &buf}

	logger := opts.NewLogger()
	logger.Debug().Msg("should not appear")

	assert.Empty(t, buf.String())
}
