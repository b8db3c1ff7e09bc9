package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestContextFieldsAreCarried(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, "debug")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithLogger(ctx, map[string]interface{}{"employee_id": 4})
	InfoLog(ctx, "toggled %s", "on")

	line := lastLine(t, &buf)
	assert.Equal(t, "req-1", line["request_id"])
	assert.EqualValues(t, 4, line["employee_id"])
	assert.Equal(t, "toggled on", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestErrorLogAttachesError(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, "info")

	ErrorLog(context.Background(), errors.New("disk full"), "save failed for %d", 3)

	line := lastLine(t, &buf)
	assert.Equal(t, "disk full", line["error"])
	assert.Equal(t, "save failed for 3", line["message"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, "warn")

	DebugLog(context.Background(), "hidden")
	InfoLog(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	WarnLog(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("loud").String())
	assert.Equal(t, "debug", parseLevel(" DEBUG ").String())
}
