package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MODEL_PATH", "MODEL_VERSION", "ALLOWED_ORIGINS", "LOG_LEVEL", "PORT"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "housingrisk.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "model.json", cfg.Model.Path)
	assert.Equal(t, "local-v1", cfg.Model.Version)
	assert.Equal(t, "model", cfg.Scoring.Physical)
	assert.Equal(t, "index", cfg.Scoring.Questionnaire)
	assert.Equal(t, "rules", cfg.Scoring.Reasons)
	assert.Equal(t, 2000, cfg.Generator.Samples)
	assert.Equal(t, uint64(42), cfg.Generator.SeedValue())
	assert.InDelta(t, 0.08, cfg.Generator.NoiseValue(), 1e-12)
	assert.Equal(t, 1000, cfg.Training.Iterations)
	assert.InDelta(t, 1e-3, cfg.Training.L2, 1e-12)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "terminal", cfg.Output.Format)
	assert.Equal(t, interfaces.RiskHigh, cfg.Output.FailLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
version: "1"
server:
  addr: ":9090"
model:
  path: artifacts/physical.json
scoring:
  physical: rules
  reasons: contributions
  weights:
    A1_1_PEIS: 1
  strategies:
    model:
      enabled: false
training:
  standardize: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "artifacts/physical.json", cfg.Model.Path)
	assert.Equal(t, "rules", cfg.Scoring.Physical)
	assert.Equal(t, "contributions", cfg.Scoring.Reasons)
	assert.Equal(t, map[string]int{"A1_1_PEIS": 1}, cfg.Scoring.Weights)
	assert.Equal(t, "local-v1", cfg.Model.Version, "unset values fall back to defaults")
	assert.Equal(t, "index", cfg.Scoring.Questionnaire)

	assert.False(t, cfg.Scoring.Strategies.Model.IsEnabled())
	assert.True(t, cfg.Scoring.Strategies.Rules.IsEnabled())
	toggle, ok := cfg.Scoring.Strategies.Lookup("model")
	require.True(t, ok)
	assert.False(t, toggle.IsEnabled())
	_, ok = cfg.Scoring.Strategies.Lookup("oracle")
	assert.False(t, ok)

	assert.True(t, cfg.Training.StandardizeFor("physical"))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  allowed_origins: ["http://file.example"]
model:
  path: file.json
  version: file-v1
`)
	t.Setenv("MODEL_PATH", "/models/env.json")
	t.Setenv("MODEL_VERSION", "env-v2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/models/env.json", cfg.Model.Path)
	assert.Equal(t, "env-v2", cfg.Model.Version)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"malformed yaml":     "scoring: [",
		"physical strategy":  "scoring:\n  physical: oracle\n",
		"reasons mode":       "scoring:\n  reasons: vibes\n",
		"questionnaire path": "scoring:\n  questionnaire: model\n",
		"log format":         "logging:\n  format: xml\n",
		"log level":          "logging:\n  level: loud\n",
		"negative noise":     "generator:\n  noise: -0.1\n",
		"fail_on level":      "output:\n  fail_on: SEVERE\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ExplicitZeroGeneratorValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
generator:
  seed: 0
  noise: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.Generator.SeedValue())
	assert.Zero(t, cfg.Generator.NoiseValue())

	cfg, err = LoadConfig(writeConfig(t, "generator:\n  seed: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Generator.SeedValue())
	assert.InDelta(t, DefaultNoise, cfg.Generator.NoiseValue(), 1e-12)
}

func TestLoadConfig_FailOn(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeConfig(t, "output:\n  fail_on: medium\n"))
	require.NoError(t, err)
	assert.Equal(t, interfaces.RiskMedium, cfg.Output.FailLevel())

	assert.Equal(t, interfaces.RiskHigh, OutputConfig{}.FailLevel())
}

func TestStandardizeFor_Defaults(t *testing.T) {
	var tc TrainingConfig
	assert.True(t, tc.StandardizeFor("questionnaire"))
	assert.False(t, tc.StandardizeFor("physical"))

	off := false
	tc.Standardize = &off
	assert.False(t, tc.StandardizeFor("questionnaire"))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}
