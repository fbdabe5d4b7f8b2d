package core

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogErrorKeepsPercentInErrors(t *testing.T) {
	var buf bytes.Buffer
	getLogger().SetOutput(&buf)
	t.Cleanup(func() { getLogger().SetOutput(os.Stderr) })

	LogError("%s", errors.New("open assets/100%done.ply: no such file"))
	assert.Contains(t, buf.String(), "open assets/100%done.ply: no such file")
	assert.NotContains(t, buf.String(), "%!d")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	_, err = ParseLogLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
