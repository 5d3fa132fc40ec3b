package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1)) // debug

	l, err = NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(0)) // info
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger("chatty")
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewLogger("chatty") })
}

func TestNewZapLeveledLogger(t *testing.T) {
	l := NewZapLeveledLogger("test")
	assert.NotNil(t, l)
	l.Info("hello", "k", "v")
}
