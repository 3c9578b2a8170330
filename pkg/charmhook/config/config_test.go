package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/charmhook/pkg/charmhook/config"
	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
)

func TestConfig_Accessors(t *testing.T) {
	cfg := config.New(map[string]any{
		"name":      "db",
		"enabled":   true,
		"list":      []any{"a", "b"},
		"mixed":     []any{"a", 1},
		"single":    "only",
		"section":   map[string]any{"level": "debug"},
		"wrongType": 42,
	})

	assert.Equal(t, "db", cfg.String("name", "x"))
	assert.Equal(t, "x", cfg.String("wrongType", "x"))
	assert.Equal(t, "x", cfg.String("missing", "x"))

	assert.True(t, cfg.Bool("enabled", false))
	assert.True(t, cfg.Bool("missing", true))

	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("list", nil))
	assert.Equal(t, []string{"d"}, cfg.StringSlice("mixed", []string{"d"}))
	assert.Equal(t, []string{"only"}, cfg.StringSlice("single", nil))

	assert.Equal(t, "debug", cfg.Section("section").String("level", ""))
	assert.Equal(t, "d", cfg.Section("name").String("level", "d"))
}

func TestNew_Nil(t *testing.T) {
	cfg := config.New(nil)
	assert.Empty(t, cfg.Section("k").StringSlice("k", nil))
	assert.Equal(t, "d", cfg.String("k", "d"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("watch_relation: db\nworkloads: [nginx, redis]\nmetrics: true\n"))
	require.NoError(t, err)

	s := config.SettingsFrom(cfg)
	assert.Equal(t, "db", s.WatchRelation)
	assert.Equal(t, []string{"nginx", "redis"}, s.Workloads)
	assert.True(t, s.Metrics)
	assert.Equal(t, "info", s.LogLevel)

	_, err = config.FromYAML([]byte("key: [unterminated"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"log": {"level": "debug", "format": "json"}, "tracing": true}`))
	require.NoError(t, err)

	s := config.SettingsFrom(cfg)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.True(t, s.Tracing)

	_, err = config.FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "charmhook.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("journal: /tmp/j.db\n"), 0o600))
	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", cfg.String("journal", ""))

	t.Run("unsupported extension", func(t *testing.T) {
		tomlPath := filepath.Join(dir, "charmhook.toml")
		require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0o600))

		_, err := config.FromFile(tomlPath)
		var fileErr *config.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "decode", fileErr.Op)
		assert.Equal(t, tomlPath, fileErr.Path)
		assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
	})

	t.Run("missing file names the variable", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.yaml")

		_, err := config.FromFile(missing)
		var fileErr *config.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "read", fileErr.Op)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.ErrorContains(t, err, "CHARMHOOK_CONFIG="+missing)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("key: [unterminated"), 0o600))

		_, err := config.FromFile(bad)
		var fileErr *config.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "decode", fileErr.Op)
	})
}

func TestLoad(t *testing.T) {
	t.Run("unset path yields defaults", func(t *testing.T) {
		s, err := config.Load(env.Map{})
		require.NoError(t, err)
		assert.Equal(t, config.Defaults(), s)
	})

	t.Run("reads file named by CHARMHOOK_CONFIG", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yml")
		require.NoError(t, os.WriteFile(path, []byte("watch_relation: db\n"), 0o600))

		s, err := config.Load(env.Map{config.PathVar: path})
		require.NoError(t, err)
		assert.Equal(t, "db", s.WatchRelation)
		assert.Equal(t, []string{"workload"}, s.Workloads)
	})

	t.Run("bad file yields defaults and error", func(t *testing.T) {
		s, err := config.Load(env.Map{config.PathVar: "/nonexistent/c.yaml"})
		var fileErr *config.FileError
		assert.ErrorAs(t, err, &fileErr)
		assert.Equal(t, config.Defaults(), s)
	})
}
