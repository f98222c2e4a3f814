package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/causalab/gies/pkg/score"
	"github.com/causalab/gies/pkg/search"
)

// Cache backend names accepted in configuration and flags.
const (
	cacheNone   = "none"
	cacheMemory = "memory"
	cacheFile   = "file"
	cacheRedis  = "redis"
	cacheMongo  = "mongo"
)

// Config is the TOML search configuration file.
//
// All fields are optional; unset fields fall back to the engine defaults.
// Example:
//
//	labels = ["rain", "sprinkler", "wet"]
//	phases = ["forward", "backward", "turning"]
//	max_degree = [0.3]
//	gaps = [["rain", "sprinkler"]]
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
type Config struct {
	// Labels overrides the vertex labels from the score table.
	Labels []string `toml:"labels"`

	// Phases is the ordered phase list: "forward", "backward", "turning".
	Phases []string `toml:"phases"`

	// Iterate repeats the phase list until a full pass accepts no move.
	Iterate *bool `toml:"iterate"`

	// MaxDegree is the degree-bound specification passed to the engine.
	MaxDegree []float64 `toml:"max_degree"`

	// Workers caps the candidate-evaluation goroutines.
	Workers int `toml:"workers"`

	// Targets overrides the intervention targets from the score table.
	Targets [][]int `toml:"targets"`

	// Gaps lists label pairs that may never be connected.
	Gaps [][]string `toml:"gaps"`

	// Cache selects and configures the score-cache backend.
	Cache CacheConfig `toml:"cache"`
}

// CacheConfig configures score memoization.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	TTL     string      `toml:"ttl"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds mongodb backend settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LoadConfig reads and decodes a TOML configuration file.
// Unknown keys are rejected, so typos surface instead of silently using
// defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return &cfg, nil
}

// SearchOptions translates the configuration into engine options for the
// given scorer. Gap label pairs resolve against the effective labels
// (config labels when set, the scorer's otherwise).
func (c *Config) SearchOptions(s score.LocalScorer) (search.Options, error) {
	opts := search.Options{
		Labels:    c.Labels,
		Targets:   c.Targets,
		Iterate:   c.Iterate,
		MaxDegree: c.MaxDegree,
		Workers:   c.Workers,
	}

	for _, name := range c.Phases {
		opts.Phases = append(opts.Phases, search.Phase(name))
	}

	if len(c.Gaps) > 0 {
		labels := c.Labels
		if labels == nil {
			labels = s.Nodes()
		}
		gaps, err := gapMatrix(c.Gaps, labels)
		if err != nil {
			return search.Options{}, err
		}
		opts.FixedGaps = gaps
	}

	return opts, nil
}

// gapMatrix expands label pairs into the symmetric forbidden-pair matrix
// the engine expects.
func gapMatrix(pairs [][]string, labels []string) ([][]bool, error) {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	p := len(labels)
	gaps := make([][]bool, p)
	for i := range gaps {
		gaps[i] = make([]bool, p)
	}
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("gap %v must name exactly two labels", pair)
		}
		a, ok := index[pair[0]]
		if !ok {
			return nil, fmt.Errorf("gap references unknown label %q", pair[0])
		}
		b, ok := index[pair[1]]
		if !ok {
			return nil, fmt.Errorf("gap references unknown label %q", pair[1])
		}
		if a == b {
			return nil, fmt.Errorf("gap %v names the same vertex twice", pair)
		}
		gaps[a][b] = true
		gaps[b][a] = true
	}
	return gaps, nil
}
