// Package config loads the YAML-backed configuration for the retrieval
// core: tier presets, scoring weights, indexing parameters, and spatial
// classifier cutoffs. It follows the teacher's load/default pattern: read
// a file if present, fall back to coded defaults if absent, never error on
// a missing file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kxddry/ragcut/internal/domain"
)

// IndexConfig configures the co-occurrence indexer (§4.B).
type IndexConfig struct {
	WindowSize    int     `yaml:"window_size"`
	MinFrequency  int     `yaml:"min_frequency"`
	MaxTerms      int     `yaml:"max_terms"`
	MinSimilarity float64 `yaml:"min_similarity"`
	MaxExpansions int     `yaml:"max_expansions"`
}

// ScoringConfig configures the chunk scorer (§4.E).
type ScoringConfig struct {
	OriginalTermWeight      float64 `yaml:"original_term_weight"`
	SemanticWeight          float64 `yaml:"semantic_weight"`
	ProximityWeight         float64 `yaml:"proximity_weight"`
	HighSimilarityThreshold float64 `yaml:"high_similarity_threshold"`
	MinimumScoreThreshold   float64 `yaml:"minimum_score_threshold"`
	ProximityDistance       int     `yaml:"proximity_distance"`
}

// SpatialConfig configures the spatial classifier's variance cutoffs
// (§4.F, §9: tunable, not semantics).
type SpatialConfig struct {
	ConcentratedBelow float64 `yaml:"concentrated_below"`
	SpreadAbove       float64 `yaml:"spread_above"`
}

// PackingConfig configures failure handling for chunks that alone exceed
// the super chunk size limit (§7 Oversized Chunk).
type PackingConfig struct {
	FailOnOversizedChunk bool `yaml:"fail_on_oversized_chunk"`
}

// AppConfig is the root configuration structure, mirroring the teacher's
// nested-by-concern AppConfig.
type AppConfig struct {
	Index   IndexConfig   `yaml:"index"`
	Scoring ScoringConfig `yaml:"scoring"`
	Spatial SpatialConfig `yaml:"spatial"`
	Packing PackingConfig `yaml:"packing"`
}

// TierPreset returns the (superChunkSize, packageSize) pair for a tier,
// and whether the tier is known.
func TierPreset(tier domain.Tier) (domain.TierPreset, bool) {
	p, ok := domain.TierPresets[tier]
	return p, ok
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault loads .env overrides (if present), then tries ./config.yaml,
// then ~/.config/ragcut/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	_ = godotenv.Load()

	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragcut", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Index: IndexConfig{
			WindowSize:    7,
			MinFrequency:  2,
			MaxTerms:      10000,
			MinSimilarity: 0.3,
			MaxExpansions: 5,
		},
		Scoring: ScoringConfig{
			OriginalTermWeight:      100,
			SemanticWeight:          30,
			ProximityWeight:         50,
			HighSimilarityThreshold: 0.7,
			MinimumScoreThreshold:   30,
			ProximityDistance:       200,
		},
		Spatial: SpatialConfig{
			ConcentratedBelow: 10,
			SpreadAbove:       50,
		},
		Packing: PackingConfig{
			FailOnOversizedChunk: false,
		},
	}
}

func applyDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Index.WindowSize == 0 {
		cfg.Index.WindowSize = d.Index.WindowSize
	}
	if cfg.Index.MinFrequency == 0 {
		cfg.Index.MinFrequency = d.Index.MinFrequency
	}
	if cfg.Index.MaxTerms == 0 {
		cfg.Index.MaxTerms = d.Index.MaxTerms
	}
	if cfg.Index.MinSimilarity == 0 {
		cfg.Index.MinSimilarity = d.Index.MinSimilarity
	}
	if cfg.Index.MaxExpansions == 0 {
		cfg.Index.MaxExpansions = d.Index.MaxExpansions
	}
	if cfg.Scoring.OriginalTermWeight == 0 {
		cfg.Scoring.OriginalTermWeight = d.Scoring.OriginalTermWeight
	}
	if cfg.Scoring.SemanticWeight == 0 {
		cfg.Scoring.SemanticWeight = d.Scoring.SemanticWeight
	}
	if cfg.Scoring.ProximityWeight == 0 {
		cfg.Scoring.ProximityWeight = d.Scoring.ProximityWeight
	}
	if cfg.Scoring.HighSimilarityThreshold == 0 {
		cfg.Scoring.HighSimilarityThreshold = d.Scoring.HighSimilarityThreshold
	}
	if cfg.Scoring.MinimumScoreThreshold == 0 {
		cfg.Scoring.MinimumScoreThreshold = d.Scoring.MinimumScoreThreshold
	}
	if cfg.Scoring.ProximityDistance == 0 {
		cfg.Scoring.ProximityDistance = d.Scoring.ProximityDistance
	}
	if cfg.Spatial.ConcentratedBelow == 0 {
		cfg.Spatial.ConcentratedBelow = d.Spatial.ConcentratedBelow
	}
	if cfg.Spatial.SpreadAbove == 0 {
		cfg.Spatial.SpreadAbove = d.Spatial.SpreadAbove
	}
}
