package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("histories: 500\nseed: 42\nlogLevel: debug\n"), 0o644))

	t.Setenv("TRANSPORT_SEED", "7")
	t.Setenv("TRANSPORT_LOG_FORMAT", "json")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(500), s.Histories)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.NoError(t, s.Validate())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("threads: 8\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("TRANSPORT_HISTORIES", "lots")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"warn level", func(s *Settings) { s.LogLevel = "warn" }, false},
		{"bad level", func(s *Settings) { s.LogLevel = "loud" }, true},
		{"bad format", func(s *Settings) { s.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveHistories(t *testing.T) {
	s := Default()
	assert.Equal(t, uint64(DefaultHistories), s.ResolveHistories(0))
	assert.Equal(t, uint64(300), s.ResolveHistories(300))

	s.Histories = 20
	assert.Equal(t, uint64(20), s.ResolveHistories(300))
}

func TestNewLogger(t *testing.T) {
	s := Default()
	s.LogFormat = "json"
	s.LogLevel = "warn"

	var buf bytes.Buffer
	logger, err := NewLogger(s, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "histories", 10)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(10), entry["histories"])

	s.LogLevel = "loud"
	_, err = NewLogger(s, &buf)
	assert.Error(t, err)
}
