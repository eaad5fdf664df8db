package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/isolate/internal/adapters/logger"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Debug("hidden")
	l.Info("packing @acme/lib")
	l.Warn("circular dependency")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "packing @acme/lib")
	assert.Contains(t, out, "level=WARN")
	assert.NotContains(t, out, "time=")
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.SetLevel(domain.LogLevelDebug)
	l.Debug("resolved 3 packages")
	assert.Contains(t, buf.String(), "resolved 3 packages")

	buf.Reset()
	l.SetLevel(domain.LogLevelError)
	l.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorIncludesChain(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Error(zerr.With(zerr.Wrap(errors.New("no such file"), "failed to read lockfile"), "path", "/ws/pnpm-lock.yaml"))
	l.Error(nil)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed to read lockfile")
	assert.Contains(t, out, "no such file")
	assert.Contains(t, out, "/ws/pnpm-lock.yaml")
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name: "wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("exit status 1"), "command failed"),
				"failed to generate lockfile",
			),
			wantMessages: []string{"failed to generate lockfile", "command failed", "exit status 1"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "empty wrapper hands metadata to its cause",
			err:          zerr.With(zerr.Wrap(domain.ErrPackageNotFound, ""), "package", "@acme/lib"),
			wantMessages: []string{"package not found in workspace"},
			wantMetadata: []map[string]any{{"package": "@acme/lib"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			assert.Len(t, entries, len(tt.wantMessages))
			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name: "cause with metadata",
			entries: []logger.ErrorEntry{
				{Message: "main", Metadata: map[string]any{"path": "/ws"}},
				{Message: "cause\nsecond line", Metadata: map[string]any{"b": 2, "a": 1}},
			},
			want: "Error: main\n       path: /ws\n\n  Caused by:\n    → cause\n      second line\n      a: 1\n      b: 2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
