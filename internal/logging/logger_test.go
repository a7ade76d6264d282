package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	SetLogger(l)
	return &buf
}

func TestConfigure_JSONFormat(t *testing.T) {
	buf := withTestLogger(t)

	require.NoError(t, Configure("debug", "json"))
	Logger.WithFields(logrus.Fields{"slot": "column1"}).Debug("call finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "call finished", entry["msg"])
	assert.Equal(t, "column1", entry["slot"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	buf := withTestLogger(t)

	require.NoError(t, Configure("error", "text"))
	Logger.Info("hidden")

	assert.Empty(t, buf.String())
}

func TestConfigure_RejectsInvalidValues(t *testing.T) {
	withTestLogger(t)

	assert.Error(t, Configure("loud", ""))
	assert.Error(t, Configure("", "xml"))
	assert.NoError(t, Configure("", ""))
}

func TestSetLogger_IgnoresNil(t *testing.T) {
	withTestLogger(t)
	current := Logger

	SetLogger(nil)

	assert.Same(t, current, Logger)
}
