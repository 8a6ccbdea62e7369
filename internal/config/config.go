// Package config holds the settings of the vehicle simulator.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/vehicle"
	"github.com/zeusync/vehicle/internal/server"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log     log.Config `yaml:"log"`
	DataDir string     `yaml:"data_dir"`
	// DataCheck is how often the data files are compared against the loaded
	// tables. Zero disables the check.
	DataCheck time.Duration `yaml:"data_check"`
	Server    server.Config `yaml:"server"`
	Tick      time.Duration `yaml:"tick"`
	Vehicle   Vehicle       `yaml:"vehicle"`
	Scenario  []Spawn       `yaml:"scenario"`
}

// Vehicle tunes every kit the world creates.
type Vehicle struct {
	MaxNestingDepth  int           `yaml:"max_nesting_depth"`
	AccessoryDespawn time.Duration `yaml:"accessory_despawn"`
}

// Spawn places Count creatures of Entry at start-up.
type Spawn struct {
	Entry    uint32     `yaml:"entry"`
	Map      uint32     `yaml:"map"`
	Position [4]float64 `yaml:"position"`
	Count    int        `yaml:"count"`
}

// Pos returns the spawn position; the fourth component is the orientation.
func (s Spawn) Pos() models.Position {
	return models.NewPosition(s.Position[0], s.Position[1], s.Position[2], s.Position[3])
}

// Default returns default configuration
func Default() Config {
	return Config{
		Log: log.Config{
			Level:    "info",
			Encoding: "json",
		},
		DataDir:   "data",
		DataCheck: 30 * time.Second,
		Server:    server.DefaultConfig(),
		Tick:      100 * time.Millisecond,
		Vehicle: Vehicle{
			MaxNestingDepth:  vehicle.DefaultMaxNestingDepth,
			AccessoryDespawn: vehicle.DefaultAccessoryDespawn,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is empty"))
	}
	if c.DataCheck < 0 {
		errs = append(errs, fmt.Errorf("data_check is negative: %s", c.DataCheck))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}
	if c.Vehicle.MaxNestingDepth < 1 {
		errs = append(errs, fmt.Errorf("vehicle.max_nesting_depth must be at least 1, got %d", c.Vehicle.MaxNestingDepth))
	}
	if c.Vehicle.AccessoryDespawn < 0 {
		errs = append(errs, fmt.Errorf("vehicle.accessory_despawn is negative: %s", c.Vehicle.AccessoryDespawn))
	}
	for i, s := range c.Scenario {
		if s.Entry == 0 {
			errs = append(errs, fmt.Errorf("scenario[%d]: entry is zero", i))
		}
		if s.Count < 0 {
			errs = append(errs, fmt.Errorf("scenario[%d]: count is negative", i))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
