package ecs

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Ticks           uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Active         bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemEntry struct {
	system   System
	name     string
	priority int
	active   bool
	order    int

	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// SystemOption configures a system at registration.
type SystemOption func(*systemEntry)

// Priority sets the system's priority. Lower runs first; equal priorities run
// in registration order. The default is 0.
func Priority(p int) SystemOption {
	return func(e *systemEntry) {
		e.priority = p
	}
}

// Inactive registers the system switched off.
func Inactive() SystemOption {
	return func(e *systemEntry) {
		e.active = false
	}
}

// Named overrides the name used in stats and logs.
func Named(name string) SystemOption {
	return func(e *systemEntry) {
		e.name = name
	}
}

// Scheduler runs a World's systems once per tick in priority order and
// applies their queued commands afterwards.
type Scheduler struct {
	world    *World
	systems  []*systemEntry
	commands *Commands
	ticks    uint64
}

// NewScheduler creates a new scheduler for the given world.
func NewScheduler(w *World) *Scheduler {
	return &Scheduler{
		world:    w,
		commands: NewCommands(),
	}
}

// Register binds the system's Query and Singleton fields, runs its Init if
// it is an Initializer and adds it to the schedule. Systems are identified by
// pointer, so system must be a non-nil pointer.
func (s *Scheduler) Register(system System, opts ...SystemOption) error {
	if v := reflect.ValueOf(system); v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: %T", ErrInvalidSystem, system)
	}
	s.initializeFields(system)
	if initializer, ok := system.(Initializer); ok {
		if err := initializer.Init(s.world); err != nil {
			return fmt.Errorf("ecs: init %s: %w", systemName(system), err)
		}
	}

	entry := &systemEntry{
		system:      system,
		name:        systemName(system),
		active:      true,
		order:       len(s.systems),
		minDuration: time.Duration(1<<63 - 1),
	}
	for _, opt := range opts {
		opt(entry)
	}

	s.systems = append(s.systems, entry)
	slices.SortStableFunc(s.systems, func(a, b *systemEntry) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		return a.order - b.order
	})

	s.world.logger.Debug("ecs: system registered",
		"system", entry.name,
		"priority", entry.priority,
		"active", entry.active,
	)
	return nil
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Pointer {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Pointer {
		return
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if binder, ok := field.Addr().Interface().(worldBinder); ok {
			binder.Init(s.world)
		}
	}
}

// SetActive switches a registered system on or off. It reports whether the
// system was found. Registered systems are all pointers, so the comparison
// never involves an uncomparable dynamic type.
func (s *Scheduler) SetActive(system System, active bool) bool {
	for _, entry := range s.systems {
		if entry.system == system {
			entry.active = active
			return true
		}
	}
	return false
}

// Commands returns the buffer systems queue into. It is flushed at the end
// of every Tick.
func (s *Scheduler) Commands() *Commands {
	return s.commands
}

// Tick runs every active system once with the given delta time and then
// flushes the queued commands, returning their joined errors.
func (s *Scheduler) Tick(dt float64) error {
	s.ticks++
	frame := newUpdateFrame(dt, s.ticks, s.commands, s.world)

	for _, entry := range s.systems {
		if !entry.active {
			continue
		}

		start := time.Now()
		entry.system.Update(frame)
		duration := time.Since(start)

		entry.executionCount++
		entry.lastDuration = duration
		entry.totalDuration += duration
		if duration < entry.minDuration {
			entry.minDuration = duration
		}
		if duration > entry.maxDuration {
			entry.maxDuration = duration
		}
	}

	return s.commands.Flush(s.world)
}

// Run ticks at the given interval until the context is cancelled. Flush
// errors are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			// Flush already logs failures.
			_ = s.Tick(dt)
		}
	}
}

// Stats returns statistics about system execution, in run order.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, entry := range s.systems {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if entry.executionCount > 0 {
			avgDuration = entry.totalDuration / time.Duration(entry.executionCount)
			minDuration = entry.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Priority:       entry.priority,
			Active:         entry.active,
			ExecutionCount: entry.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    entry.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   entry.lastDuration,
			TotalDuration:  entry.totalDuration,
		}
		totalExecs += entry.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
