package trace_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/trace"
)

func TestNew_TextPrintsBareMessage(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatText)
	require.NoError(t, err)

	logger.Info("Original code:\nx = 1")
	assert.Equal(t, "Original code:\nx = 1\n", buf.String())
}

func TestNew_TextAppendsSortedFields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, "")
	require.NoError(t, err)

	logger.WithFields(logrus.Fields{"rule": "output-escaping", "category": "xss"}).Info("Applying xss fix...")
	assert.Equal(t, "Applying xss fix... category=xss rule=output-escaping\n", buf.String())
}

func TestNew_TextLevelPrefixes(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatText)
	require.NoError(t, err)

	logger.WithError(errors.New("boom")).Error("failed")
	logger.Warn("careful")
	assert.Equal(t, "ERROR: failed error=boom\nWARNING: careful\n", buf.String())
}

func TestNew_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatJSON)
	require.NoError(t, err)

	logger.WithField("rule", "secret-redaction").Info("replaced password assignment")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "replaced password assignment", line["msg"])
	assert.Equal(t, "secret-redaction", line["rule"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := trace.New(new(bytes.Buffer), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestDiscard(t *testing.T) {
	logger := trace.Discard()
	assert.NotPanics(t, func() { logger.Info("dropped") })
}
