package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(file, "info")
	require.NoError(t, err)

	log.Debug("hidden %d", 1)
	log.Info("CreateAppointment: staff=%d", 7)
	_ = log.Close()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CreateAppointment: staff=7")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}

func TestFromZap_FormatsMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("request_id", "abc")

	log.Warn("GetCalendar: %d conflicts", 2)
	log.Error("Reload: %v", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "GetCalendar: 2 conflicts", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.Info("x")
		log.Warn("y")
		log.Error("z")
	})
}
