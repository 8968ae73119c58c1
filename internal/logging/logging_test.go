package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewDebugWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(true, &buf)

	logger.Debug("retrieved shell", zap.String("name", "zsh"))
	_ = logger.Sync()

	out := buf.String()
	assert.Contains(t, out, "huh")
	assert.Contains(t, out, "retrieved shell")
	assert.Contains(t, out, `"name": "zsh"`)
	assert.Contains(t, out, " | ")
}

func TestNewWithoutDebugIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(false, &buf)

	logger.Debug("hidden")
	logger.Error("also hidden")
	_ = logger.Sync()

	assert.Empty(t, buf.String())
}
