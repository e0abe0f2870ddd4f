// Command simulation runs the flock without a window for a fixed number of
// frames, optionally recording statistics to an output directory.
package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/telemetry"
)

func main() {
	initialBoids := flag.String("initial_boids", "", "Number of boids at start (default 64)")
	configPath := flag.String("config", "", "Path to a JSON config file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV stats and config snapshot")
	frames := flag.Int("frames", 600, "Number of frames to simulate")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *initialBoids, *seed, *outputDir, *frames); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, initialBoids string, seed int64, outputDir string, frames int) error {
	cfg, err := simulation.Configure(configPath, initialBoids, logger)
	if err != nil {
		return err
	}

	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	recorder, err := telemetry.NewRecorder(outputDir)
	if err != nil {
		return err
	}
	defer recorder.Close()
	if err := recorder.WriteConfig(cfg); err != nil {
		return err
	}

	opts := []simulation.Option{simulation.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, simulation.WithTelemetry(recorder))
	}
	session := simulation.NewSession(cfg, rand.New(rand.NewPCG(uint64(rngSeed), 0)), opts...)

	logger.Info("starting headless simulation",
		"seed", rngSeed,
		"frames", frames,
		"initial_boids", cfg.InitialAgents,
	)

	start := time.Now()
	for session.Frames() < frames {
		session.Step(simulation.Frame{})
	}

	stats := telemetry.Compute(session.Frames(), session.Flock().Snapshot(), session.Bounds(), false)
	logger.Info("simulation finished",
		"frames", stats.Frame,
		"agents", stats.Agents,
		"polarization", stats.Polarization,
		"spread", stats.Spread,
		"mean_speed", stats.MeanSpeed,
		"out_of_bounds", stats.OutOfBounds,
		"elapsed", time.Since(start).String(),
	)
	return recorder.Close()
}
