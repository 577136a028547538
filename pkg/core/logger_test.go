package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo_NonProd_EmitsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(NewConfig(WithEnvironment("development")), &buf)

	logger.Debug("hello")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.False(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, "environment=development")
}

func TestNewLoggerTo_Prod_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(NewConfig(WithEnvironment("production")), &buf)

	logger.Info("hello")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, "{"), out)
}

func TestNewLoggerWithOtel_NoopService(t *testing.T) {
	logger := NewLoggerWithOtel(NewConfig(), NewNoopOtelService())

	require.NotNil(t, logger)
	logger.Info("does not panic")
}
