package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
)

type testSpawnSystem struct {
	executed bool
}

func (s *testSpawnSystem) Update(frame *ecs.UpdateFrame) {
	s.executed = true
	frame.Commands.Create(func(w *ecs.World, e ecs.Entity) error {
		if _, err := ecs.Put(w, e, Position{X: 1, Y: 2}); err != nil {
			return err
		}
		_, err := ecs.Put(w, e, Velocity{DX: 0.5, DY: 0.5})
		return err
	})
	frame.Commands.Create(func(w *ecs.World, e ecs.Entity) error {
		_, err := ecs.Put(w, e, Position{X: 3, Y: 4})
		return err
	})
}

type testDeleteSystem struct {
	entityToDelete ecs.Entity
}

func (s *testDeleteSystem) Update(frame *ecs.UpdateFrame) {
	frame.Commands.Destroy(s.entityToDelete)
}

type testAddSystem struct {
	entity ecs.Entity
}

func (s *testAddSystem) Update(frame *ecs.UpdateFrame) {
	ecs.AddComponent(frame.Commands, s.entity, Velocity{DX: 5, DY: 10})
}

type testRemoveSystem struct {
	entity ecs.Entity
}

func (s *testRemoveSystem) Update(frame *ecs.UpdateFrame) {
	ecs.RemoveComponent[Velocity](frame.Commands, s.entity)
}

type testMixedSystem struct {
	entity ecs.Entity
}

func (s *testMixedSystem) Update(frame *ecs.UpdateFrame) {
	frame.Commands.Create(func(w *ecs.World, e ecs.Entity) error {
		_, err := ecs.Put(w, e, Position{X: 10, Y: 20})
		return err
	})
	ecs.AddComponent(frame.Commands, s.entity, Velocity{DX: 1, DY: 1})
	frame.Commands.Destroy(s.entity)
	frame.Commands.Create(func(w *ecs.World, e ecs.Entity) error {
		_, err := ecs.Put(w, e, Health{Current: 100, Max: 100})
		return err
	})
}

// destroyMovers destroys every member of its own query while ranging over it.
type destroyMovers struct {
	Movers ecs.Query[struct {
		Entity ecs.Entity
		*Position
		*Velocity
	}]
	seen int
}

func (s *destroyMovers) Update(frame *ecs.UpdateFrame) {
	for e := range s.Movers.Iter() {
		s.seen++
		frame.Commands.Destroy(e)
		ecs.RemoveComponent[Velocity](frame.Commands, e)
	}
}

func TestCommands(t *testing.T) {
	registry := newTestRegistry()

	t.Run("create entities", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		scheduler := ecs.NewScheduler(w)

		system := &testSpawnSystem{}
		require.NoError(t, scheduler.Register(system))

		view := ecs.NewView[struct{ *Position }](w)
		if view.Len() != 0 {
			t.Error("entities created before frame execution")
		}

		require.NoError(t, scheduler.Tick(1.0))

		if view.Len() != 2 {
			t.Errorf("expected 2 entities after frame, got %d", view.Len())
		}
		if !system.executed {
			t.Error("system was not executed")
		}
	})

	t.Run("destroy entities", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		e1 := spawn(t, w, Position{X: 1, Y: 2})
		e2 := spawn(t, w, Position{X: 3, Y: 4})

		scheduler := ecs.NewScheduler(w)
		require.NoError(t, scheduler.Register(&testDeleteSystem{entityToDelete: e1}))

		require.NoError(t, scheduler.Tick(1.0))

		if w.Alive(e1) {
			t.Error("entity not destroyed after frame")
		}
		if !w.Alive(e2) {
			t.Error("wrong entity destroyed")
		}
	})

	t.Run("add components", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		entity := spawn(t, w, Position{X: 1, Y: 2})

		scheduler := ecs.NewScheduler(w)
		require.NoError(t, scheduler.Register(&testAddSystem{entity: entity}))
		require.NoError(t, scheduler.Tick(1.0))

		vel, ok := ecs.Get[Velocity](w, entity)
		require.True(t, ok)
		assert.Equal(t, Velocity{DX: 5, DY: 10}, *vel)
	})

	t.Run("add components twice reports an error", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		entity := spawn(t, w, Position{X: 1, Y: 2})

		scheduler := ecs.NewScheduler(w)
		require.NoError(t, scheduler.Register(&testAddSystem{entity: entity}))
		require.NoError(t, scheduler.Tick(1.0))

		err := scheduler.Tick(1.0)
		assert.ErrorIs(t, err, ecs.ErrAlreadyPresent)
	})

	t.Run("remove components", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		entity := spawn(t, w, Position{X: 1, Y: 2}, Velocity{DX: 5, DY: 10})

		scheduler := ecs.NewScheduler(w)
		require.NoError(t, scheduler.Register(&testRemoveSystem{entity: entity}))
		require.NoError(t, scheduler.Tick(1.0))

		_, ok := ecs.Get[Velocity](w, entity)
		assert.False(t, ok, "velocity component not removed")
		pos, ok := ecs.Get[Position](w, entity)
		require.True(t, ok)
		assert.Equal(t, Position{X: 1, Y: 2}, *pos)
	})

	t.Run("mixed operations", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		e1 := spawn(t, w, Position{X: 1, Y: 2})

		scheduler := ecs.NewScheduler(w)
		require.NoError(t, scheduler.Register(&testMixedSystem{entity: e1}))
		require.NoError(t, scheduler.Tick(1.0), "adds aimed at a destroyed entity are dropped")

		assert.False(t, w.Alive(e1))
		assert.Equal(t, 1, ecs.GetStore[Position](w).Len())
		assert.Equal(t, 1, ecs.GetStore[Health](w).Len())
		assert.Equal(t, 0, ecs.GetStore[Velocity](w).Len())
	})

	t.Run("mutation during own iteration is deferred", func(t *testing.T) {
		w := ecs.NewWorld(registry)
		for i := 0; i < 5; i++ {
			spawn(t, w, Position{X: float32(i)}, Velocity{DX: 1})
		}
		keeper := spawn(t, w, Position{X: 99})

		scheduler := ecs.NewScheduler(w)
		sys := &destroyMovers{}
		require.NoError(t, scheduler.Register(sys))
		require.NoError(t, scheduler.Tick(1.0))

		assert.Equal(t, 5, sys.seen, "every member is visited exactly once")
		assert.Equal(t, 0, sys.Movers.Len())
		assert.Equal(t, 1, w.Entities().Len())
		assert.True(t, w.Alive(keeper))
		require.NoError(t, sys.Movers.Family().Validate())
	})
}

func TestCommandsFlushOrder(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	cmds := ecs.NewCommands()
	var log []string

	victim := spawn(t, w, Position{})
	target := spawn(t, w, Position{})

	cmds.Defer(func() { log = append(log, "defer") })
	cmds.Create(func(w *ecs.World, e ecs.Entity) error {
		log = append(log, "create")
		return nil
	})
	ecs.AddComponent(cmds, target, Name{Value: "added"})
	ecs.RemoveComponent[Position](cmds, target)
	cmds.Destroy(victim)
	cmds.Destroy(victim)
	assert.Equal(t, 6, cmds.Len())

	ecs.Subscribe(w.Events(), func(ev ecs.EntityDestroyed) { log = append(log, "destroy") })
	ecs.Subscribe(w.Events(), func(ev ecs.ComponentRemoved) {
		if ev.Entity == target {
			log = append(log, "remove")
		}
	})
	ecs.Subscribe(w.Events(), func(ev ecs.ComponentAdded) {
		if ev.Entity == target {
			log = append(log, "add")
		}
	})

	require.NoError(t, cmds.Flush(w), "a duplicate destroy in one flush is not an error")
	assert.Equal(t, []string{"destroy", "remove", "add", "create", "defer"}, log)
	assert.Zero(t, cmds.Len())
}

func TestCommandsQueuedDuringFlushWait(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	cmds := ecs.NewCommands()
	ran := 0

	cmds.Defer(func() {
		cmds.Defer(func() { ran++ })
	})

	require.NoError(t, cmds.Flush(w))
	assert.Zero(t, ran)
	assert.Equal(t, 1, cmds.Len())

	require.NoError(t, cmds.Flush(w))
	assert.Equal(t, 1, ran)
}

func TestCommandsJoinErrors(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	cmds := ecs.NewCommands()

	dead := w.Create()
	require.NoError(t, w.Destroy(dead))
	live := spawn(t, w, Position{})

	cmds.Destroy(dead)
	ecs.RemoveComponent[Velocity](cmds, live)
	ecs.AddComponent(cmds, live, Position{})

	err := cmds.Flush(w)
	require.Error(t, err)
	assert.ErrorIs(t, err, ecs.ErrAlreadyDestroyed)
	assert.ErrorIs(t, err, ecs.ErrNotPresent)
	assert.ErrorIs(t, err, ecs.ErrAlreadyPresent)
}
