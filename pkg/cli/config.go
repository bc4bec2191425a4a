// Package cli provides CLI-specific logic including configuration loading.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// DefaultConfigFile is read when no --config path is given.
const DefaultConfigFile = ".housingrisk.yml"

// Config represents the .housingrisk.yml configuration file.
type Config struct {
	Version   string          `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Generator GeneratorConfig `yaml:"generator"`
	Training  TrainingConfig  `yaml:"training"`
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ModelConfig locates the trained artifacts. Path holds the physical model,
// QuestionnairePath the optional questionnaire model.
type ModelConfig struct {
	Path              string `yaml:"path"`
	QuestionnairePath string `yaml:"questionnaire_path"`
	Version           string `yaml:"version"`
}

// ScoringConfig selects the decision authority per variant.
type ScoringConfig struct {
	Physical      string           `yaml:"physical"`
	Questionnaire string           `yaml:"questionnaire"`
	Reasons       string           `yaml:"reasons"`
	Weights       map[string]int   `yaml:"weights,omitempty"`
	Strategies    StrategiesConfig `yaml:"strategies"`
}

// StrategiesConfig toggles strategies taking part in comparisons.
type StrategiesConfig struct {
	Index StrategyModuleConfig `yaml:"index"`
	Rules StrategyModuleConfig `yaml:"rules"`
	Model StrategyModuleConfig `yaml:"model"`
}

// StrategyModuleConfig configures a single strategy.
type StrategyModuleConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether this strategy is enabled.
// Returns true by default if not explicitly set.
func (s StrategyModuleConfig) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Lookup returns the toggle of a strategy by name.
func (s StrategiesConfig) Lookup(name string) (StrategyModuleConfig, bool) {
	switch name {
	case "index":
		return s.Index, true
	case "rules":
		return s.Rules, true
	case "model":
		return s.Model, true
	default:
		return StrategyModuleConfig{}, false
	}
}

// Generator defaults used when the file leaves seed or noise unset.
const (
	DefaultSeed  uint64  = 42
	DefaultNoise float64 = 0.08
)

// GeneratorConfig controls synthetic dataset generation. Seed and Noise are
// pointers so that an explicit 0 is kept.
type GeneratorConfig struct {
	Samples   int      `yaml:"samples"`
	Seed      *uint64  `yaml:"seed"`
	Workers   int      `yaml:"workers"`
	Noise     *float64 `yaml:"noise"`
	OutputDir string   `yaml:"output_dir"`
}

// SeedValue returns the configured seed or DefaultSeed.
func (g GeneratorConfig) SeedValue() uint64 {
	if g.Seed == nil {
		return DefaultSeed
	}
	return *g.Seed
}

// NoiseValue returns the configured noise sigma or DefaultNoise.
func (g GeneratorConfig) NoiseValue() float64 {
	if g.Noise == nil {
		return DefaultNoise
	}
	return *g.Noise
}

// TrainingConfig controls classifier fitting. Standardize defaults to true for
// the questionnaire and false for physical records.
type TrainingConfig struct {
	Iterations   int     `yaml:"iterations"`
	LearningRate float64 `yaml:"learning_rate"`
	L2           float64 `yaml:"l2"`
	Standardize  *bool   `yaml:"standardize"`
}

// StandardizeFor resolves the standardization switch for a variant name.
func (t TrainingConfig) StandardizeFor(variant string) bool {
	if t.Standardize != nil {
		return *t.Standardize
	}
	return variant == "questionnaire"
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OutputConfig controls report output settings. FailOn is the lowest risk
// level at which score exits non-zero.
type OutputConfig struct {
	Format string `yaml:"format"`
	FailOn string `yaml:"fail_on"`
}

// FailLevel returns the parsed fail_on level, HIGH when unset or invalid.
func (o OutputConfig) FailLevel() interfaces.RiskLevel {
	level, err := interfaces.ParseRiskLevel(strings.ToUpper(o.FailOn))
	if err != nil {
		return interfaces.RiskHigh
	}
	return level
}

// LoadConfig reads and parses a .housingrisk.yml configuration file.
// If path is empty, it looks for .housingrisk.yml in the current directory.
// If the default config file is not found, sensible defaults are returned.
// If an explicitly specified config file is not found, an error is returned.
// Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	useDefault := path == ""
	if useDefault {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && useDefault {
			cfg := DefaultConfig()
			applyEnv(cfg)
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("cli: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("cli: reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cli: %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults matching the documented
// .housingrisk.yml schema.
func DefaultConfig() *Config {
	cfg := &Config{Version: "1"}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "model.json"
	}
	if cfg.Model.Version == "" {
		cfg.Model.Version = "local-v1"
	}
	if cfg.Scoring.Physical == "" {
		cfg.Scoring.Physical = "model"
	}
	if cfg.Scoring.Questionnaire == "" {
		cfg.Scoring.Questionnaire = "index"
	}
	if cfg.Scoring.Reasons == "" {
		cfg.Scoring.Reasons = "rules"
	}
	if cfg.Generator.Samples == 0 {
		cfg.Generator.Samples = 2000
	}
	if cfg.Generator.OutputDir == "" {
		cfg.Generator.OutputDir = "."
	}
	if cfg.Training.Iterations == 0 {
		cfg.Training.Iterations = 1000
	}
	if cfg.Training.L2 == 0 {
		cfg.Training.L2 = 1e-3
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "terminal"
	}
	if cfg.Output.FailOn == "" {
		cfg.Output.FailOn = string(interfaces.RiskHigh)
	}
}

// applyEnv lets deployment environments override the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("MODEL_VERSION"); v != "" {
		cfg.Model.Version = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(v, ":")
		slog.Debug("cli: listen address taken from PORT", "addr", cfg.Server.Addr)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects values no command can act on.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"model", "rules"}, c.Scoring.Physical) {
		return fmt.Errorf("scoring.physical %q: want model|rules", c.Scoring.Physical)
	}
	if !slices.Contains([]string{"index", "model"}, c.Scoring.Questionnaire) {
		return fmt.Errorf("scoring.questionnaire %q: want index|model", c.Scoring.Questionnaire)
	}
	if !slices.Contains([]string{"rules", "contributions"}, c.Scoring.Reasons) {
		return fmt.Errorf("scoring.reasons %q: want rules|contributions", c.Scoring.Reasons)
	}
	if c.Scoring.Questionnaire == "model" && c.Model.QuestionnairePath == "" {
		return errors.New("scoring.questionnaire is model but model.questionnaire_path is empty")
	}
	if !slices.Contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("logging.format %q: want text|json", c.Logging.Format)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Generator.Samples < 0 {
		return errors.New("generator.samples must not be negative")
	}
	if _, err := interfaces.ParseRiskLevel(strings.ToUpper(c.Output.FailOn)); err != nil {
		return fmt.Errorf("output.fail_on: %w", err)
	}
	if c.Generator.NoiseValue() < 0 {
		return errors.New("generator.noise must not be negative")
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging.level %q: want debug|info|warn|error", s)
	}
	return level, nil
}
