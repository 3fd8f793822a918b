package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New("dev", "debug")
	require.NoError(t, err)
	l.With("file", "a.mzTab").Debug("reading")

	_, err = New("prod", "")
	assert.NoError(t, err)

	_, err = New("dev", "loud")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Info("ignored", "n", 1)
		l.Sync()
	})
}
