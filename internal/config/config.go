// Package config loads treeproj settings with viper.
//
// Precedence, lowest first: built-in defaults, the YAML config file, TREEPROJ_*
// environment variables, command-line flags. Nested keys map to environment
// names by replacing "." with "_", e.g. TREEPROJ_PROJECT_NORM_AFTER for
// project.norm_after.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TREEPROJ"

// Config is the complete configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Project ProjectConfig `mapstructure:"project"`
	Decode  DecodeConfig  `mapstructure:"decode"`
	Vote    VoteConfig    `mapstructure:"vote"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProjectConfig controls the project command.
type ProjectConfig struct {
	NormBefore       string  `mapstructure:"norm_before"`
	NormAfter        string  `mapstructure:"norm_after"`
	Temperature      float64 `mapstructure:"temperature"`
	Cutoff           float64 `mapstructure:"cutoff"`
	Binary           bool    `mapstructure:"binary"`
	Trees            bool    `mapstructure:"trees"`
	GreedyRoot       bool    `mapstructure:"greedy_root"`
	UseSimilarity    bool    `mapstructure:"use_similarity"`
	WeightedPOS      bool    `mapstructure:"weighted_pos"`
	ReverseAlignment bool    `mapstructure:"reverse_alignment"`
	Strategy         string  `mapstructure:"strategy"`
	Workers          int     `mapstructure:"workers"`
}

// DecodeConfig controls the decode command.
type DecodeConfig struct {
	Norm            string  `mapstructure:"norm"`
	Minimize        bool    `mapstructure:"minimize"`
	GreedyRoot      bool    `mapstructure:"greedy_root"`
	PathCompression bool    `mapstructure:"path_compression"`
	LowConfidence   float64 `mapstructure:"low_confidence"`
	Workers         int     `mapstructure:"workers"`
}

// VoteConfig controls the vote command.
type VoteConfig struct {
	Norm            string `mapstructure:"norm"`
	Trees           bool   `mapstructure:"trees"`
	FillEmpty       bool   `mapstructure:"fill_empty"`
	Punct           bool   `mapstructure:"punct"`
	GreedyRoot      bool   `mapstructure:"greedy_root"`
	PathCompression bool   `mapstructure:"path_compression"`
	Workers         int    `mapstructure:"workers"`
}

// Strategy names accepted in ProjectConfig.Strategy.
const (
	StrategySparse = "sparse"
	StrategyDense  = "dense"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Project: ProjectConfig{
			NormBefore:  "identity",
			NormAfter:   "softmax",
			Temperature: 1,
			Binary:      false,
			WeightedPOS: true,
			Strategy:    StrategySparse,
			Workers:     0,
		},
		Decode: DecodeConfig{
			Norm: "identity",
		},
		Vote: VoteConfig{
			Norm:      "softmax",
			FillEmpty: true,
			Punct:     true,
		},
	}
}

// SetDefaults registers Default on v so every key is known to Unmarshal
// and to AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("project.norm_before", d.Project.NormBefore)
	v.SetDefault("project.norm_after", d.Project.NormAfter)
	v.SetDefault("project.temperature", d.Project.Temperature)
	v.SetDefault("project.cutoff", d.Project.Cutoff)
	v.SetDefault("project.binary", d.Project.Binary)
	v.SetDefault("project.trees", d.Project.Trees)
	v.SetDefault("project.greedy_root", d.Project.GreedyRoot)
	v.SetDefault("project.use_similarity", d.Project.UseSimilarity)
	v.SetDefault("project.weighted_pos", d.Project.WeightedPOS)
	v.SetDefault("project.reverse_alignment", d.Project.ReverseAlignment)
	v.SetDefault("project.strategy", d.Project.Strategy)
	v.SetDefault("project.workers", d.Project.Workers)

	v.SetDefault("decode.norm", d.Decode.Norm)
	v.SetDefault("decode.minimize", d.Decode.Minimize)
	v.SetDefault("decode.greedy_root", d.Decode.GreedyRoot)
	v.SetDefault("decode.path_compression", d.Decode.PathCompression)
	v.SetDefault("decode.low_confidence", d.Decode.LowConfidence)
	v.SetDefault("decode.workers", d.Decode.Workers)

	v.SetDefault("vote.norm", d.Vote.Norm)
	v.SetDefault("vote.trees", d.Vote.Trees)
	v.SetDefault("vote.fill_empty", d.Vote.FillEmpty)
	v.SetDefault("vote.punct", d.Vote.Punct)
	v.SetDefault("vote.greedy_root", d.Vote.GreedyRoot)
	v.SetDefault("vote.path_compression", d.Vote.PathCompression)
	v.SetDefault("vote.workers", d.Vote.Workers)
}

// New returns a viper instance with defaults and environment binding.
// A non-empty cfgFile must exist and parse.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return v, nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
	}

	return v, nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("config: nil viper")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
