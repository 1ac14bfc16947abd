// Package config loads engine settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type FixCost struct {
	Enabled  bool    `yaml:"enabled"`
	Weight   float64 `yaml:"weight"`
	MinRatio float64 `yaml:"min_ratio"`
}

// Constraints toggles the built-in hard constraints.
type Constraints struct {
	Load            bool `yaml:"load"`
	TimeWindows     bool `yaml:"time_windows"`
	Skills          bool `yaml:"skills"`
	PickupsFirst    bool `yaml:"pickups_first"`
	DeliveriesFirst bool `yaml:"deliveries_first"`
}

type Config struct {
	// Workers bounds concurrent insertion evaluations. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// FleetSize is "finite" or "infinite".
	FleetSize string `yaml:"fleet_size"`

	// Seed drives the random choices of the ruin operators.
	Seed int64 `yaml:"seed"`

	FixCost     FixCost     `yaml:"fix_cost"`
	Constraints Constraints `yaml:"constraints"`
}

const (
	FiniteFleet   = "finite"
	InfiniteFleet = "infinite"
)

func Default() Config {
	return Config{
		Workers:   runtime.GOMAXPROCS(0),
		FleetSize: FiniteFleet,
		Seed:      1,
		FixCost:   FixCost{Enabled: true, Weight: 0.5, MinRatio: 0.5},
		Constraints: Constraints{
			Load:        true,
			TimeWindows: true,
			Skills:      true,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return c, err
	}
	err := c.Validate()
	return c, err
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("VRP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: VRP_WORKERS=%q", ErrInvalid, v)
		}
		c.Workers = n
	}
	if v := os.Getenv("VRP_FLEET_SIZE"); v != "" {
		c.FleetSize = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	switch c.FleetSize {
	case FiniteFleet, InfiniteFleet:
	case "":
		c.FleetSize = FiniteFleet
	default:
		return fmt.Errorf("%w: fleet_size %q", ErrInvalid, c.FleetSize)
	}
	if c.FixCost.Weight < 0 || c.FixCost.MinRatio < 0 || c.FixCost.MinRatio > 1 {
		return fmt.Errorf("%w: fix_cost weight=%g min_ratio=%g", ErrInvalid, c.FixCost.Weight, c.FixCost.MinRatio)
	}
	return nil
}
