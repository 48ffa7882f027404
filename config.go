package vamana

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/vamana/scratch"
)

// Config sizes the store and scratch pools. Values are shared with the
// beam-search driver: changing them here changes how much a driver may
// claim per search.
type Config struct {
	// Dim is the true vector dimension.
	Dim int `envconfig:"DIM" default:"128"`

	// MaxPoints is the vector-store capacity.
	MaxPoints int `envconfig:"MAX_POINTS" default:"1000000"`

	// Metric selects the injected distance metric: l2, cosine, or dot.
	Metric string `envconfig:"METRIC" default:"l2"`

	// L bounds the search frontier (best-candidates queue).
	L int `envconfig:"SEARCH_L" default:"100"`

	// R is the maximum graph degree.
	R int `envconfig:"GRAPH_DEGREE" default:"64"`

	// MaxC is the pruning candidate limit.
	MaxC int `envconfig:"MAX_CANDIDATES" default:"750"`

	// PoolSize is the number of pre-warmed scratch objects per pool,
	// normally the worker-thread count.
	PoolSize int `envconfig:"POOL_SIZE" default:"8"`

	// DenseDedupe selects the bit-vector dedupe form for in-memory
	// search. Enable when location ids are dense in [0, MaxPoints).
	DenseDedupe bool `envconfig:"DENSE_DEDUPE" default:"false"`

	// PQ reserves product-quantization scratch in every working set.
	PQ bool `envconfig:"PQ" default:"false"`

	// PQChunks is the number of PQ subspaces when PQ is enabled.
	PQChunks int `envconfig:"PQ_CHUNKS" default:"0"`

	// MaxCmps caps full-precision comparisons per disk search.
	MaxCmps int `envconfig:"MAX_CMPS" default:"16384"`

	// SectorLen is the disk I/O unit in bytes.
	SectorLen int `envconfig:"SECTOR_LEN" default:"4096"`

	// MaxSectorReads caps in-flight sector reads per disk search.
	MaxSectorReads int `envconfig:"MAX_SECTOR_READS" default:"128"`

	// MemoryLimitBytes bounds memory reserved for pools and the store.
	// 0 disables the limit.
	MemoryLimitBytes int64 `envconfig:"MEMORY_LIMIT_BYTES" default:"0"`

	// IOLimitBytesPerSec throttles bulk loads. 0 disables the limit.
	IOLimitBytesPerSec int64 `envconfig:"IO_LIMIT_BYTES_PER_SEC" default:"0"`
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{
		Dim:            128,
		MaxPoints:      1000000,
		Metric:         "l2",
		L:              100,
		R:              64,
		MaxC:           750,
		PoolSize:       8,
		MaxCmps:        scratch.MaxCmps,
		SectorLen:      scratch.SectorLen,
		MaxSectorReads: scratch.MaxSectorReads,
	}
}

// ConfigFromEnv builds a Config from VAMANA_* environment variables,
// falling back to defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("vamana", &cfg); err != nil {
		return Config{}, fmt.Errorf("vamana: process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the scratch machinery cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Dim <= 0:
		return fmt.Errorf("vamana: dim must be positive, got %d", c.Dim)
	case c.MaxPoints <= 0:
		return fmt.Errorf("vamana: max points must be positive, got %d", c.MaxPoints)
	case c.L <= 0:
		return fmt.Errorf("vamana: search L must be positive, got %d", c.L)
	case c.R <= 0 || c.R > scratch.MaxGraphDegree:
		return fmt.Errorf("vamana: graph degree must be in (0, %d], got %d", scratch.MaxGraphDegree, c.R)
	case c.PoolSize <= 0:
		return fmt.Errorf("vamana: pool size must be positive, got %d", c.PoolSize)
	case c.MaxCmps <= 0:
		return fmt.Errorf("vamana: max cmps must be positive, got %d", c.MaxCmps)
	case c.SectorLen <= 0:
		return fmt.Errorf("vamana: sector len must be positive, got %d", c.SectorLen)
	case c.MaxSectorReads <= 0:
		return fmt.Errorf("vamana: max sector reads must be positive, got %d", c.MaxSectorReads)
	}
	return nil
}
