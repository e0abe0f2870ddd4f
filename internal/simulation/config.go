package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// DefaultInitialAgents is the flock size when nothing else is configured.
const DefaultInitialAgents = 64

//go:embed config_schema.json
var configSchema string

// ErrInvalidConfig is returned when a config file does not match the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Population
	InitialAgents int `json:"initialAgents" yaml:"initial_agents"`

	// World dimensions, replaced by the window size once it is known
	WorldWidth  float64 `json:"worldWidth" yaml:"world_width"`
	WorldHeight float64 `json:"worldHeight" yaml:"world_height"`

	// Flocking physics
	MaxSpeed           float64 `json:"maxSpeed" yaml:"max_speed"`
	MaxSteerForce      float64 `json:"maxSteerForce" yaml:"max_steer_force"`
	DesiredSeparation  float64 `json:"desiredSeparation" yaml:"desired_separation"`
	NearbyValue        float64 `json:"nearbyValue" yaml:"nearby_value"`
	ConfinePush        float64 `json:"confinePush" yaml:"confine_push"`
	DoubleThreatForces bool    `json:"doubleThreatForces" yaml:"double_threat_forces"`

	// Input
	NudgeForce float64 `json:"nudgeForce" yaml:"nudge_force"` // shift+arrow push per frame

	// Loop and telemetry
	TargetTPS      int `json:"targetTPS" yaml:"target_tps"`
	TelemetryEvery int `json:"telemetryEvery" yaml:"telemetry_every"` // frames between samples, 0 disables
}

func DefaultConfig() *Config {
	p := flock.DefaultParams()
	return &Config{
		InitialAgents:      DefaultInitialAgents,
		WorldWidth:         1920,
		WorldHeight:        1080,
		MaxSpeed:           p.MaxSpeed,
		MaxSteerForce:      p.MaxSteerForce,
		DesiredSeparation:  p.DesiredSeparation,
		NearbyValue:        p.NearbyValue,
		ConfinePush:        p.ConfinePush,
		DoubleThreatForces: p.DoubleThreatForces,
		NudgeForce:         10,
		TargetTPS:          60,
		TelemetryEvery:     60,
	}
}

// Params builds the flock tuning from the config, keeping the default weights.
func (c *Config) Params() flock.Params {
	p := flock.DefaultParams()
	p.MaxSpeed = c.MaxSpeed
	p.MaxSteerForce = c.MaxSteerForce
	p.DesiredSeparation = c.DesiredSeparation
	p.NearbyValue = c.NearbyValue
	p.ConfinePush = c.ConfinePush
	p.DoubleThreatForces = c.DoubleThreatForces
	return p
}

// Bounds returns the configured world size.
func (c *Config) Bounds() flock.Bounds {
	return flock.Bounds{Width: c.WorldWidth, Height: c.WorldHeight}
}

// LoadConfig reads a JSON config file and validates it against the embedded schema.
// Fields missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	sch, err := jsonschema.CompileString("config_schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, configFile, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ParseInitialAgents reads the initial agent count given on the command line.
// An empty value means "not set"; anything that is not a non-negative integer
// is reported and replaced by fallback, the simulation still starts.
func ParseInitialAgents(raw string, fallback int, logger *slog.Logger) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logger.Warn("invalid initial agent count, using default",
			"value", raw,
			"default", fallback)
		return fallback
	}
	return n
}

// Configure loads configFile (defaults when empty) and applies the command
// line agent count on top of it.
func Configure(configFile, initialAgents string, logger *slog.Logger) (*Config, error) {
	cfg := DefaultConfig()
	if configFile != "" {
		loaded, err := LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Info("config loaded", "path", configFile)
	}
	cfg.InitialAgents = ParseInitialAgents(initialAgents, cfg.InitialAgents, logger)
	return cfg, nil
}
