package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevLogger, prevSugar := Logger, Sugar
	t.Cleanup(func() {
		Logger, Sugar = prevLogger, prevSugar
		zap.ReplaceGlobals(prevLogger)
	})
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		file    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "stdout only",
			file: func(t *testing.T) string { return "" },
		},
		{
			name: "file in missing directory",
			file: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "logs", "ticket-desk.log")
			},
		},
		{
			name: "directory is a regular file",
			file: func(t *testing.T) string {
				blocker := filepath.Join(t.TempDir(), "not-a-dir")
				require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
				return filepath.Join(blocker, "ticket-desk.log")
			},
			wantErr: true,
		},
		{
			name: "path is a directory",
			file: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreGlobals(t)
			before := Logger
			path := tt.file(t)

			err := Init(Options{Level: "debug", File: path, Env: "production"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Same(t, before, Logger)
				return
			}
			require.NoError(t, err)
			assert.NotSame(t, before, Logger)

			if path == "" {
				return
			}
			Sugar.Infow("ticket created", "uid", "AAAA2222")
			Sync()
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"uid":"AAAA2222"`)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).String(), in)
	}
}
