package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New("debug", FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = New("warn", "")
	require.NoError(t, err)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", FormatText)
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestComponent(t *testing.T) {
	logger := logrus.New()
	entry := Component(logger, "tracker")
	assert.Equal(t, "tracker", entry.Data["component"])
}

func TestDiscard(t *testing.T) {
	entry := Discard()
	require.NotNil(t, entry)
	entry.Info("dropped")
}
