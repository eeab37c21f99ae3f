package ecs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
)

func TestWorldStats(t *testing.T) {
	registry := newTestRegistry()
	w := ecs.NewWorld(registry)

	stats := w.CollectStats()
	assert.Equal(t, w.ID(), stats.ID)
	assert.Zero(t, stats.EntityCount)
	assert.Zero(t, stats.StoreCount)
	assert.Zero(t, stats.FamilyCount)
	assert.Zero(t, stats.SingletonCount)

	ecs.NewFamily(w, ecs.Require(ecs.KindOf[Position](registry)))
	for i := 0; i < 3; i++ {
		e := w.Create()
		_, err := ecs.Put(w, e, Position{X: float32(i)})
		require.NoError(t, err)
		if i == 0 {
			_, err = ecs.Put(w, e, Name{Value: "first"})
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Destroy(ecs.NewEntity(2, 1)))

	ecs.NewSingleton(w, Temperature(3.5))
	ecs.NewSingleton(w, Tag("singleton"))

	stats = w.CollectStats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 3, stats.IndexCapacity)
	assert.Equal(t, 1, stats.FreeIndices)

	require.Equal(t, 2, stats.StoreCount)
	assert.Equal(t, ecs.StoreStats{
		Kind:      ecs.KindOf[Position](registry),
		Name:      "ecs_test.Position",
		Count:     2,
		Capacity:  3,
		FreeSlots: 1,
	}, stats.StoreBreakdown[0])
	assert.Equal(t, "ecs_test.Name", stats.StoreBreakdown[1].Name)
	assert.Equal(t, 1, stats.StoreBreakdown[1].Count)

	require.Equal(t, 1, stats.FamilyCount)
	assert.Equal(t, ecs.FamilyStats{Filter: "all(ecs_test.Position)", Members: 2}, stats.Families[0])

	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Tag", "ecs_test.Temperature"}, stats.SingletonTypes)
}

type sleepySystem struct {
	delay time.Duration
}

func (s *sleepySystem) Update(frame *ecs.UpdateFrame) {
	time.Sleep(s.delay)
}

func TestSchedulerStats(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	scheduler := ecs.NewScheduler(w)

	stats := scheduler.Stats()
	assert.Zero(t, stats.SystemCount)

	slow := &sleepySystem{delay: 2 * time.Millisecond}
	off := &sleepySystem{}
	require.NoError(t, scheduler.Register(slow, ecs.Named("slow")))
	require.NoError(t, scheduler.Register(off, ecs.Inactive()))

	for i := 0; i < 3; i++ {
		require.NoError(t, scheduler.Tick(0.016))
	}

	stats = scheduler.Stats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, uint64(3), stats.Ticks)
	assert.Equal(t, int64(3), stats.TotalExecutions)

	s := stats.Systems[0]
	assert.Equal(t, "slow", s.Name)
	assert.True(t, s.Active)
	assert.Equal(t, int64(3), s.ExecutionCount)
	assert.GreaterOrEqual(t, s.MinDuration, 2*time.Millisecond)
	assert.GreaterOrEqual(t, s.MaxDuration, s.MinDuration)
	assert.GreaterOrEqual(t, s.AvgDuration, s.MinDuration)
	assert.LessOrEqual(t, s.AvgDuration, s.MaxDuration)
	assert.Equal(t, s.TotalDuration, s.AvgDuration*3+s.TotalDuration%3)

	o := stats.Systems[1]
	assert.Equal(t, "sleepySystem", o.Name)
	assert.False(t, o.Active)
	assert.Zero(t, o.ExecutionCount)
	assert.Zero(t, o.MinDuration)
}
