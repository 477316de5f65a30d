package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.SizeX)
	assert.Equal(t, 20, cfg.SizeZ)
	assert.InDelta(t, 1.1, cfg.CellSpacing, 1e-12)
	assert.InDelta(t, 0.125, cfg.Scale, 1e-12)
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"grid.json": `{"seed": 9223372036854775807, "size_x": 5, "octaves": 6, "persistence": 0.4, "log_level": "debug"}`,
		"grid.toml": "seed = 9223372036854775807\nsize_x = 5\noctaves = 6\npersistence = 0.4\nlog_level = \"debug\"\n",
		"grid.yaml": "seed: 9223372036854775807\nsize_x: 5\noctaves: 6\npersistence: 0.4\nlog_level: debug\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, content))
			require.NoError(t, err)

			assert.Equal(t, int64(9223372036854775807), cfg.Seed)
			assert.Equal(t, 5, cfg.SizeX)
			assert.Equal(t, 6, cfg.Octaves)
			assert.InDelta(t, 0.4, cfg.Persistence, 1e-12)
			assert.Equal(t, "debug", cfg.LogLevel)

			// Untouched fields keep their defaults.
			assert.Equal(t, 20, cfg.SizeZ)
			assert.InDelta(t, 2.0, cfg.Lacunarity, 1e-12)
		})
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", "\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	bad := []string{
		`{"octaves": 0}`,
		`{"size_x": -1}`,
		`{"seed": 1.5}`,
		`{"log_level": "loud"}`,
		`{"unknown_field": true}`,
		`{"persistence": -0.5}`,
	}
	for _, content := range bad {
		_, err := Load(writeFile(t, "bad.json", content))
		assert.Error(t, err, content)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "grid.ini", "seed=1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMergeRespectsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Octaves = 2

	fromFile := DefaultConfig()
	fromFile.Seed = 99
	fromFile.Octaves = 8
	fromFile.SizeX = 64

	Merge(cfg, fromFile, map[string]bool{"seed": true})

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 8, cfg.Octaves)
	assert.Equal(t, 64, cfg.SizeX)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Octaves = 0
	assert.True(t, errors.Is(cfg.Validate(), noise.ErrInvalidConfig))

	// A preset supplies its own noise parameters.
	cfg.Preset = "gentle hills"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SizeZ = -2
	assert.True(t, errors.Is(cfg.Validate(), noise.ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.Workers = -1
	assert.True(t, errors.Is(cfg.Validate(), noise.ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.LogLevel = "chatty"
	assert.True(t, errors.Is(cfg.Validate(), noise.ErrInvalidConfig))
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		got, err := cfg.Level()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	assert.Equal(t, int64(42), cfg.ResolveSeed())

	cfg.SeedText = "valley of the kings"
	assert.Equal(t, int64(xxhash.Sum64String("valley of the kings")), cfg.ResolveSeed())
	assert.Equal(t, cfg.ResolveSeed(), cfg.ResolveSeed())
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	np := cfg.NoiseParams()
	gp := cfg.GridParams()

	assert.Equal(t, noise.Params{Scale: 0.125, Octaves: 4, Persistence: 0.5, Lacunarity: 2}, np)
	assert.Equal(t, 20, gp.SizeX)
	assert.InDelta(t, 3.0, gp.HeightScale, 1e-12)
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"grid.toml", false},
		{"./configs/grid.yaml", false},
		{"/etc/terrain/grid.json", false},
		{"file:///etc/terrain/grid.json", false},
		{`C:\terrain\grid.json`, false},
		{"https://example.com/grid.toml", true},
		{"git::https://example.com/r.git//grid.yaml", true},
		{"s3::https://bucket.s3.amazonaws.com/grid.json", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRemote(tt.src), tt.src)
	}
}

func TestRemoteFileName(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"https://example.com/cfg/grid.toml?ref=main", "grid.toml"},
		{"git::https://github.com/o/r.git//configs/grid.yaml", "grid.yaml"},
		{"s3::https://bucket.s3.amazonaws.com/a/b/grid.json", "grid.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, remoteFileName(tt.src), tt.src)
	}
}

func TestFetchLocalPassthrough(t *testing.T) {
	p := writeFile(t, "grid.json", `{}`)
	got, err := Fetch(context.Background(), p, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
