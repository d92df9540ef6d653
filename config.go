package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds search tuning and run parameters. Adjust these to trade memory
// for speed; none of them changes the answer.
type Config struct {
	// Workers is how many blueprints are searched at once. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`
	// FanOutDepth searches the children of nodes shallower than this many
	// minutes in parallel goroutines. 0 keeps each blueprint single-threaded.
	FanOutDepth int `yaml:"fanOutDepth" validate:"gte=0,lte=4"`
	// TraceDepth logs every visited state with fewer elapsed minutes than
	// this at debug level. 0 disables the trace.
	TraceDepth int `yaml:"traceDepth" validate:"gte=0,lte=64"`

	Cache   CacheConfig   `yaml:"cache"`
	Prune   PruneConfig   `yaml:"prune"`
	Quality VariantConfig `yaml:"quality"`
	Product VariantConfig `yaml:"product"`
}

// CacheConfig selects the memo backend and bounds its size in entries.
type CacheConfig struct {
	Backend  string `yaml:"backend" validate:"oneof=lru ristretto"`
	Capacity int    `yaml:"capacity" validate:"gte=1"`
}

// PruneConfig switches individual pruning rules. All of them are sound for
// four materials and a one-minute production lag.
type PruneConfig struct {
	Horizon    bool `yaml:"horizon"`
	Saturation bool `yaml:"saturation"`
	Deferred   bool `yaml:"deferred"`
	Bound      bool `yaml:"bound"`
}

// VariantConfig describes one task variant: the horizon, and how many
// blueprints from the top of the input take part (0 = all).
type VariantConfig struct {
	Minutes    int `yaml:"minutes" validate:"gte=1,lte=64"`
	Blueprints int `yaml:"blueprints" validate:"gte=0"`
}

// DefaultConfig returns the tuning used when no file or environment
// override is given.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:  BackendLRU,
			Capacity: 1 << 20,
		},
		Prune: PruneConfig{
			Horizon:    true,
			Saturation: true,
			Deferred:   true,
			Bound:      true,
		},
		Quality: VariantConfig{Minutes: 24},
		Product: VariantConfig{Minutes: 32, Blueprints: 3},
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

// LoadConfig builds the configuration: defaults, then the YAML file at path
// (optional, a missing file is not an error), then GEODE_* environment
// variables, then validation.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadConfigFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadConfigFromEnv(cfg *Config) {
	envInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}
	envInt("GEODE_WORKERS", &cfg.Workers)
	envInt("GEODE_FANOUT_DEPTH", &cfg.FanOutDepth)
	envInt("GEODE_TRACE_DEPTH", &cfg.TraceDepth)
	envInt("GEODE_CACHE_CAPACITY", &cfg.Cache.Capacity)
	if v := os.Getenv("GEODE_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
}
