package ecs_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
)

func TestWorldsAreIndependent(t *testing.T) {
	registry := newTestRegistry()
	a := ecs.NewWorld(registry)
	b := ecs.NewWorld(registry)
	require.NotEqual(t, a.ID(), b.ID())

	famA := ecs.NewFamily(a, ecs.Require(ecs.KindOf[Position](registry)))
	famB := ecs.NewFamily(b, ecs.Require(ecs.KindOf[Position](registry)))

	ea := a.Create()
	eb := b.Create()
	assert.Equal(t, ea, eb, "each world numbers its own entities")

	_, err := ecs.Put(a, ea, Position{X: 1})
	require.NoError(t, err)

	assert.True(t, famA.Contains(ea))
	assert.False(t, famB.Contains(eb))
	_, ok := ecs.Get[Position](b, eb)
	assert.False(t, ok)

	require.NoError(t, a.Destroy(ea))
	assert.True(t, b.Alive(eb))
}

func TestWorldOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	id := uuid.MustParse("3f1c9a2e-8d4b-4c61-9e7a-0b5d2f6c8a13")

	w := ecs.NewWorld(newTestRegistry(), ecs.WithLogger(logger), ecs.WithID(id))
	assert.Equal(t, id, w.ID())

	ecs.NewFamily(w, ecs.Require(ecs.KindOf[Position](w.Registry())))

	out := buf.String()
	assert.Contains(t, out, "ecs: world created")
	assert.Contains(t, out, "ecs: family created")
	assert.Contains(t, out, "world="+id.String())
	assert.Contains(t, out, "filter=all(ecs_test.Position)")
}

func TestSingleton(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())

	counter := ecs.NewSingleton(w, Score(5))
	require.True(t, counter.Exists())
	assert.Equal(t, Score(5), *counter.Get())

	again := ecs.NewSingleton[Score](w, Score(99))
	assert.Same(t, counter.Get(), again.Get(), "a second accessor shares the value and ignores its initializer")

	again.Set(7)
	assert.Equal(t, Score(7), *counter.Get())

	var unbound ecs.Singleton[Tag]
	assert.False(t, unbound.Exists())
	unbound.Init(w)
	assert.True(t, unbound.Exists())
	assert.Equal(t, Tag(""), *unbound.Get())

	other := ecs.NewWorld(w.Registry())
	assert.NotSame(t, counter.Get(), ecs.NewSingleton[Score](other).Get())
}
