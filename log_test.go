//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogQuiet, "quiet"},
		{LogError, "error"},
		{LogWarning, "warning"},
		{LogInfo, "info"},
		{LogDebug, "debug"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLogCallbackReceivesErrors(t *testing.T) {
	var messages []string
	SetLogCallback(func(level LogLevel, message string) {
		messages = append(messages, message)
	})
	defer SetLogCallback(nil)

	p, _, dpy := newTestPlatform(t)
	p.CreateWindowSurface(dpy, testConfig, nil, nil)

	found := false
	for _, m := range messages {
		if strings.Contains(m, "EGL_BAD_NATIVE_WINDOW") {
			found = true
		}
	}
	if !found {
		t.Errorf("error sink writes should reach the log callback, got %q", messages)
	}
}

func TestLogLevelFilters(t *testing.T) {
	var count int
	SetLogCallback(func(LogLevel, string) { count++ })
	SetLogLevel(LogQuiet)
	defer func() {
		SetLogCallback(nil)
		SetLogLevel(LogWarning)
	}()

	logf(LogError, "suppressed")
	if count != 0 {
		t.Errorf("messages above the level limit must be dropped, got %d", count)
	}

	SetLogLevel(LogDebug)
	logf(LogDebug, "delivered")
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
