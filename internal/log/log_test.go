package log

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWrite_FormatsEntry(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWriter(&buf)
	defer restore()

	Warn(CatNav, "failed to write location", "view", "geographic", "dangling")

	line := buf.String()
	require.Contains(t, line, "[WARN] [nav] failed to write location")
	require.Contains(t, line, "view=geographic")
	require.Contains(t, line, "dangling=<missing>")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestMinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWriter(&buf)
	defer restore()

	SetMinLevel(LevelWarn)
	Info(CatData, "dataset loaded")
	require.Empty(t, buf.String())

	Error(CatGuard, "panel fault")
	require.Contains(t, buf.String(), "[ERROR] [guard] panel fault")

	buf.Reset()
	SetEnabled(false)
	Error(CatGuard, "panel fault")
	require.Empty(t, buf.String())
}

func TestErrorErr_AddsError(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWriter(&buf)
	defer restore()

	ErrorErr(CatConfig, "save failed", context.Canceled, "path", "c.yaml")
	require.Contains(t, buf.String(), "error=context canceled")
	require.Contains(t, buf.String(), "path=c.yaml")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel(" INFO "))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelDebug, ParseLevel("verbose"))
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWriter(&buf)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewListener(ctx)
	require.NotNil(t, l)

	done := make(chan LogEvent, 1)
	go func() {
		if ev, ok := l.Listen()().(LogEvent); ok {
			done <- ev
		}
	}()

	// The subscription is live before Listen's command runs.
	Info(CatUI, "screen remounted")
	select {
	case ev := <-done:
		require.Contains(t, ev.Payload, "screen remounted")
	case <-time.After(time.Second):
		t.Fatal("no log event delivered")
	}
}
