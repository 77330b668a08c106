package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHookOnlyCopiesErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.AddHook(NewErrorHook(&buf))

	log.Info("cycle started")
	log.Warn("slow upstream")
	log.WithField("endpoint", "weather").Error("weather API returned status 500")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"message":"weather API returned status 500"`)
	assert.Contains(t, lines[0], `"endpoint":"weather"`)
}

func TestNewWritesErrorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	log, err := New("debug", path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.SetOutput(&bytes.Buffer{})
	log.Error("database unreachable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "database unreachable")
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New("chatty", "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
