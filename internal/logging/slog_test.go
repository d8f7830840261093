package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogText_LevelsAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewSlogText(&buf, "debug")
	require.NoError(t, err)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogText_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewSlogText(&buf, "info")
	require.NoError(t, err)

	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestSlogJSON_WithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewSlogJSON(&buf, "")
	require.NoError(t, err)

	log.With("component", "http").Info(context.TODO(), "request", "status", 201)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "request", rec["msg"])
	assert.Equal(t, "http", rec["component"])
	assert.EqualValues(t, 201, rec["status"])
}

func TestZerologConsole_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZerologConsole(&buf, "debug")
	require.NoError(t, err)

	log.With("component", "session").Warn(context.Background(), "token expired", "user", "alice")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "token expired")
	assert.Contains(t, out, "component=session")
	assert.Contains(t, out, "user=alice")
}

func TestZerolog_OddArgs(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZerologConsole(&buf, "info")
	require.NoError(t, err)

	log.Info(context.Background(), "odd", "dangling")
	assert.Contains(t, buf.String(), "!BADKEY=dangling")
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer

	for _, format := range []string{"", "json", "text", "console", "JSON"} {
		l, err := New(format, "info", &buf)
		require.NoError(t, err, format)
		require.NotNil(t, l)
	}

	_, err := New("xml", "info", &buf)
	require.Error(t, err)

	_, err = New("json", "loud", &buf)
	require.Error(t, err)

	_, err = New("console", "loud", &buf)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("k", "v")
	require.NotPanics(t, func() {
		l.Debug(context.TODO(), "x")
		l.Error(context.TODO(), "y", "err", strings.ToUpper("boom"))
	})
}
