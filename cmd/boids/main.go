package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/game"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/telemetry"
)

func main() {
	// CLI flags
	initialBoids := flag.String("initial_boids", "", "Number of boids at start (default 64)")
	configPath := flag.String("config", "", "Path to a JSON config file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV stats and config snapshot")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *initialBoids, *seed, *outputDir); err != nil {
		logger.Error("boids stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, initialBoids string, seed int64, outputDir string) error {
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

	logger.Info("starting boids",
		"seed", rngSeed,
		"initial_boids", cfg.InitialAgents,
		"output_dir", outputDir,
	)

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("boids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TargetTPS)

	if err := ebiten.RunGame(game.New(session, logger)); err != nil {
		return err
	}
	logger.Info("boids closed", "frames", session.Frames(), "agents", session.Flock().Len())
	return nil
}
