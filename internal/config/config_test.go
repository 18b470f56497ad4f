package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "records.db"
	cfg.Currency.Rates["GBP"] = 120
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", got.Storage.Backend)
	assert.Equal(t, "records.db", got.Storage.Path)
	assert.Equal(t, cfg.Auth.Path, got.Auth.Path)
	assert.Equal(t, cfg.Currency.Base, got.Currency.Base)
	assert.InDelta(t, 120, got.Currency.Rates["GBP"], 0.001)
	assert.InDelta(t, 1.3, got.Currency.Rates["INR"], 0.001)
	assert.InDelta(t, cfg.Tax.FlatRate, got.Tax.FlatRate, 0.001)
	assert.True(t, got.Git.AutoCommit)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, "records.json", cfg.Storage.Path)
	assert.Equal(t, "users.json", cfg.Auth.Path)
	assert.Equal(t, "BDT", cfg.Currency.Base)
	assert.InDelta(t, 95, cfg.Currency.Rates["USD"], 0.001)
	assert.InDelta(t, 110, cfg.Currency.Rates["EUR"], 0.001)
	assert.InDelta(t, 1.3, cfg.Currency.Rates["INR"], 0.001)
	assert.InDelta(t, 15, cfg.Tax.FlatRate, 0.001)
	require.Len(t, cfg.Tax.Brackets, 4)
	assert.Equal(t, BracketConfig{Lower: 3000000, Upper: 0, Rate: 25}, cfg.Tax.Brackets[3])
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Git.AutoCommit)
	require.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("storage:\n  backend: sqlite\n"), 0o644))
	cfg, err = LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "records.json", cfg.Storage.Path, "unset fields keep defaults")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	cfg.Currency.Rates["JPY"] = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
	assert.Contains(t, err.Error(), "JPY")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate_Brackets(t *testing.T) {
	tests := []struct {
		name     string
		brackets []BracketConfig
		want     string
	}{
		{"empty uses built-in", nil, ""},
		{"starts above zero", []BracketConfig{{Lower: 10, Upper: 0, Rate: 5}}, "must start at 0"},
		{"gap", []BracketConfig{{Lower: 0, Upper: 100, Rate: 0}, {Lower: 200, Upper: 0, Rate: 5}}, "bracket 2 must start at 100"},
		{"open-ended in the middle", []BracketConfig{{Lower: 0, Upper: 0, Rate: 0}, {Lower: 0, Upper: 0, Rate: 5}}, "open-ended but not last"},
		{"inverted", []BracketConfig{{Lower: 0, Upper: 100, Rate: 0}, {Lower: 100, Upper: 50, Rate: 5}}, "must exceed lower"},
		{"rate out of range", []BracketConfig{{Lower: 0, Upper: 0, Rate: 150}}, "between 0 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Tax.Brackets = tt.brackets
			err := cfg.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_BracketsReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yaml := "tax:\n  brackets:\n    - {lower: 0, upper: 1000, rate: 0}\n    - {lower: 1000, upper: 0, rate: 20}\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []BracketConfig{{Lower: 0, Upper: 1000, Rate: 0}, {Lower: 1000, Upper: 0, Rate: 20}}, cfg.Tax.Brackets)
	assert.InDelta(t, 15, cfg.Tax.FlatRate, 0.001)
	require.NoError(t, cfg.Validate())
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: json")
	assert.Contains(t, contents, "base: BDT")
	assert.Contains(t, contents, "flat_rate: 15")
	assert.Contains(t, contents, "brackets:")
	assert.Contains(t, contents, "auto_commit: false")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "records.json"), Resolve("/data", "records.json"))
	assert.Equal(t, "/elsewhere/r.json", Resolve("/data", "/elsewhere/r.json"))

	t.Setenv("FINTRACK_TEST_DIR", "/from-env")
	assert.Equal(t, "/from-env/r.json", Resolve("/data", "$FINTRACK_TEST_DIR/r.json"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, ".fintrack"), ExpandPath("~/.fintrack"))
	assert.Equal(t, "/plain/path", ExpandPath("/plain/path"))
}
