package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("scene-stress", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file.")
	values := bindFlags(fs, DefaultConfig())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	values.applyFlags(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := new(slog.LevelVar)
	lvl, _ := parseLevel(cfg.LogLevel)
	level.Set(lvl)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Watch && *configPath != "" {
		watcher, err := WatchConfig(*configPath, level, logger)
		if err != nil {
			return fmt.Errorf("scene-stress: watch %s: %w", *configPath, err)
		}
		defer watcher.Close()
	}

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logger.Info("Starting scene graph stress test...")

	report, err := simulate(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("scene-stress: generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	logger.Info("Stress test complete.")
	return nil
}

// simulate builds the world described by cfg and ticks it until cfg.Duration
// elapses or ctx is cancelled.
func simulate(ctx context.Context, cfg Config, logger *slog.Logger) (*Report, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	w := ecs.NewWorld(newRegistry(), ecs.WithLogger(logger))
	scheduler := ecs.NewScheduler(w)

	churn := &ChurnSystem{Count: cfg.Churn, rng: rng}
	systems := []struct {
		system ecs.System
		opts   []ecs.SystemOption
	}{
		{&SpinSystem{}, nil},
		{churn, []ecs.SystemOption{ecs.Priority(10)}},
		{&scene.CameraSystem{}, []ecs.SystemOption{ecs.Priority(100)}},
		{&scene.RenderQueueSystem{}, []ecs.SystemOption{ecs.Priority(100)}},
	}
	for _, s := range systems {
		if err := scheduler.Register(s.system, s.opts...); err != nil {
			return nil, err
		}
	}

	logger.Info("Populating world", "nodes", cfg.Entities, "depth", cfg.Depth, "fan_out", cfg.FanOut)
	roots, err := buildForest(w, cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("scene-stress: build forest: %w", err)
	}
	if _, err := spawnCamera(w); err != nil {
		return nil, fmt.Errorf("scene-stress: spawn camera: %w", err)
	}
	logger.Info("Population complete", "roots", len(roots))

	report := &Report{Config: cfg}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("Running simulation", "duration", cfg.Duration)
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Tick(deltaTime.Seconds()); err != nil {
				logger.Warn("scene-stress: tick reported errors", "error", err)
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	for _, f := range w.Families() {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("scene-stress: family %s: %w", f.Filter().Describe(w.Registry()), err)
		}
	}

	report.World = w.CollectStats()
	report.Scheduler = scheduler.Stats()
	for range scene.Roots(w) {
		report.Roots++
	}
	report.MaxDepth = maxDepth(w)
	report.Destroyed = churn.Destroyed
	report.Created = churn.Created
	report.DrawItems = len(ecs.NewSingleton[scene.DrawList](w).Get().Items)

	logger.Info("Simulation finished", "ticks", report.TotalUpdates)
	return report, nil
}
