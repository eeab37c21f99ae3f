package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config drives one stress run. Every field can come from the YAML file
// and be overridden by the flag of the same name.
type Config struct {
	Duration time.Duration `yaml:"duration"`
	Entities int           `yaml:"entities"`
	Depth    int           `yaml:"depth"`
	FanOut   int           `yaml:"fan_out"`
	Churn    int           `yaml:"churn"`
	LogLevel string        `yaml:"log_level"`
	Profile  string        `yaml:"profile"`
	Seed     uint64        `yaml:"seed"`
	Watch    bool          `yaml:"watch"`
}

func DefaultConfig() Config {
	return Config{
		Duration: 10 * time.Second,
		Entities: 10000,
		Depth:    4,
		FanOut:   4,
		Churn:    16,
		LogLevel: "info",
		Seed:     1,
	}
}

// LoadConfig reads path over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("scene-stress: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("scene-stress: unmarshal %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Duration <= 0:
		return fmt.Errorf("scene-stress: duration must be positive, got %s", c.Duration)
	case c.Entities < 1:
		return fmt.Errorf("scene-stress: entities must be at least 1, got %d", c.Entities)
	case c.Depth < 1:
		return fmt.Errorf("scene-stress: depth must be at least 1, got %d", c.Depth)
	case c.FanOut < 1:
		return fmt.Errorf("scene-stress: fan_out must be at least 1, got %d", c.FanOut)
	case c.Churn < 0:
		return fmt.Errorf("scene-stress: churn must not be negative, got %d", c.Churn)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("scene-stress: unknown profile mode %q", c.Profile)
	}
	_, err := parseLevel(c.LogLevel)
	return err
}

// flagValues holds flag destinations. After fs.Parse, applyFlags copies
// only the flags that were set explicitly over cfg.
type flagValues struct {
	duration time.Duration
	entities int
	depth    int
	fanOut   int
	churn    int
	logLevel string
	profile  string
	seed     uint64
	watch    bool
}

func bindFlags(fs *flag.FlagSet, defaults Config) *flagValues {
	v := &flagValues{}
	fs.DurationVar(&v.duration, "duration", defaults.Duration, "The total duration the test should run for.")
	fs.IntVar(&v.entities, "entities", defaults.Entities, "The number of Transform nodes to create.")
	fs.IntVar(&v.depth, "depth", defaults.Depth, "The maximum depth of each hierarchy.")
	fs.IntVar(&v.fanOut, "fan-out", defaults.FanOut, "Children per node.")
	fs.IntVar(&v.churn, "churn", defaults.Churn, "Nodes destroyed and recreated every tick.")
	fs.StringVar(&v.logLevel, "log-level", defaults.LogLevel, "debug, info, warn or error.")
	fs.StringVar(&v.profile, "profile", defaults.Profile, "Write a cpu or mem profile to the working directory.")
	fs.Uint64Var(&v.seed, "seed", defaults.Seed, "Random seed for hierarchy shape and churn.")
	fs.BoolVar(&v.watch, "watch", defaults.Watch, "Reload log_level when the config file changes.")
	return v
}

func (v *flagValues) applyFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = v.duration
		case "entities":
			cfg.Entities = v.entities
		case "depth":
			cfg.Depth = v.depth
		case "fan-out":
			cfg.FanOut = v.fanOut
		case "churn":
			cfg.Churn = v.churn
		case "log-level":
			cfg.LogLevel = v.logLevel
		case "profile":
			cfg.Profile = v.profile
		case "seed":
			cfg.Seed = v.seed
		case "watch":
			cfg.Watch = v.watch
		}
	})
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("scene-stress: log level: %w", err)
	}
	return level, nil
}

// ConfigWatcher reloads the config file on change and applies its log level.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	level   *slog.LevelVar
	logger  *slog.Logger
	done    chan struct{}
}

// WatchConfig watches the directory holding path, since editors often
// replace files rather than write them in place.
func WatchConfig(path string, level *slog.LevelVar, logger *slog.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		level:   level,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) run() {
	defer close(cw.done)
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("scene-stress: config watch error", "error", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.logger.Warn("scene-stress: config reload failed", "path", cw.path, "error", err)
		return
	}
	level, _ := parseLevel(cfg.LogLevel)
	if level != cw.level.Level() {
		cw.level.Set(level)
		cw.logger.Info("scene-stress: log level changed", "level", level)
	}
}
