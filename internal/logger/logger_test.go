package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)
	l.Debug("hidden")
	l.Info("also hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	require.False(t, strings.Contains(out, "hidden"))
	require.True(t, strings.Contains(out, "shown"))
	require.True(t, strings.Contains(out, "[WARN]"))
	require.True(t, strings.Contains(out, "[ERROR]"))
}

func TestFormattedVariants(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DebugLevel)
	l.Debugf("value=%d", 42)
	require.Equal(t, "[DEBUG] value=42\n", buf.String())
}
