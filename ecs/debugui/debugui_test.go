package debugui

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

type health struct {
	Current int8
	Max     int
	Label   string
	hidden  bool
}

type velocity struct {
	DX, DY float64
}

func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[health](registry)
	ecs.RegisterComponent[velocity](registry)
	scene.Register(registry)
	RegisterDebugUIComponents(registry)
	return ecs.NewWorld(registry)
}

func TestCollectEntities(t *testing.T) {
	w := newTestWorld(t)
	a := w.Create()
	_, err := ecs.Put(w, a, health{Max: 10})
	require.NoError(t, err)
	_, err = ecs.Put(w, a, velocity{DX: 1})
	require.NoError(t, err)
	b := w.Create()

	rows := collectEntities(w)
	require.Len(t, rows, 2)
	assert.Equal(t, a, rows[0].ID)
	assert.Equal(t, 2, rows[0].ComponentCount)
	assert.Len(t, rows[0].ComponentTypes, 2)
	assert.Equal(t, b, rows[1].ID)
	assert.Zero(t, rows[1].ComponentCount)
}

func TestEntityBrowserTracksStructuralChanges(t *testing.T) {
	w := newTestWorld(t)
	browser := NewEntityBrowserComponent(w, 10)

	browser.rebuildCacheIfNeeded(w)
	assert.Empty(t, browser.cache.entities)
	assert.False(t, browser.cache.dirty)

	e := w.Create()
	assert.True(t, browser.cache.dirty)
	browser.rebuildCacheIfNeeded(w)
	require.Len(t, browser.cache.entities, 1)

	_, err := ecs.Put(w, e, velocity{})
	require.NoError(t, err)
	assert.True(t, browser.cache.dirty)

	browser.Close(w)
	require.NoError(t, w.Destroy(e))
	browser.cache.dirty = false
	w.Create()
	assert.False(t, browser.cache.dirty, "closed browsers stop listening")
}

func TestEntityBrowserFilters(t *testing.T) {
	w := newTestWorld(t)
	browser := NewEntityBrowserComponent(w, 10)

	moving := w.Create()
	_, err := ecs.Put(w, moving, velocity{})
	require.NoError(t, err)
	still := w.Create()
	_, err = ecs.Put(w, still, health{})
	require.NoError(t, err)

	browser.rebuildCacheIfNeeded(w)
	assert.Len(t, browser.filteredEntities(), 2)

	browser.filterText = "velocity"
	got := browser.filteredEntities()
	require.Len(t, got, 1)
	assert.Equal(t, moving, got[0].ID)

	browser.filterText = ""
	family := ecs.NewFamily(w, ecs.Require(ecs.KindOf[health](w.Registry())))
	browser.FilterFamily(family)
	got = browser.filteredEntities()
	require.Len(t, got, 1)
	assert.Equal(t, still, got[0].ID)
}

func TestEntityBrowserSort(t *testing.T) {
	w := newTestWorld(t)
	browser := NewEntityBrowserComponent(w, 10)
	for i := 0; i < 3; i++ {
		e := w.Create()
		for j := 0; j < i; j++ {
			if j == 0 {
				_, _ = ecs.Put(w, e, health{})
			} else {
				_, _ = ecs.Put(w, e, velocity{})
			}
		}
	}
	browser.rebuildCacheIfNeeded(w)

	browser.cache.sortColumn = 3
	browser.cache.sortAscending = false
	browser.sortEntities()
	counts := []int{}
	for _, row := range browser.cache.entities {
		counts = append(counts, row.ComponentCount)
	}
	assert.Equal(t, []int{2, 1, 0}, counts)
}

func TestCollectFamilies(t *testing.T) {
	w := newTestWorld(t)
	hp := ecs.KindOf[health](w.Registry())
	vel := ecs.KindOf[velocity](w.Registry())

	movers := ecs.NewFamily(w, ecs.Require(vel).Exclude(hp))
	for i := 0; i < 3; i++ {
		e := w.Create()
		_, err := ecs.Put(w, e, velocity{})
		require.NoError(t, err)
	}

	families := collectFamilies(w)
	require.Len(t, families, 1)
	assert.Same(t, movers, families[0].Family)
	assert.Equal(t, 2, families[0].KindCount)
	assert.Equal(t, 3, families[0].MemberCount)
	assert.Equal(t, movers.Filter().Describe(w.Registry()), families[0].Filter)

	viewer := NewFamilyViewerComponent()
	viewer.selected = movers
	movers.Close()
	viewer.rebuildCache(w)
	assert.Nil(t, viewer.Selected(), "closed families are deselected")
}

func TestFilterDebugger(t *testing.T) {
	w := newTestWorld(t)
	hp := ecs.KindOf[health](w.Registry())
	vel := ecs.KindOf[velocity](w.Registry())

	both := w.Create()
	_, _ = ecs.Put(w, both, health{})
	_, _ = ecs.Put(w, both, velocity{})
	onlyVel := w.Create()
	_, _ = ecs.Put(w, onlyVel, velocity{})

	fd := NewFilterDebuggerComponent()
	fd.Toggle(vel, true, false)
	assert.Equal(t, ecs.Require(vel), fd.Filter())
	assert.Equal(t, 2, countMatches(w, fd.Filter()))

	fd.Toggle(hp, true, true)
	assert.Equal(t, 1, countMatches(w, fd.Filter()))

	fd.Toggle(hp, true, false)
	assert.Equal(t, ecs.Require(vel, hp), fd.Filter(), "a kind is never required and excluded at once")

	fd.Toggle(vel, false, false)
	fd.Toggle(hp, false, false)
	assert.Equal(t, ecs.Filter{}, fd.Filter())
}

func TestCollectHierarchy(t *testing.T) {
	w := newTestWorld(t)
	root := w.Create()
	_, err := ecs.Put(w, root, scene.NewTransformAt(mgl64.Vec3{1, 0, 0}))
	require.NoError(t, err)
	child := w.Create()
	_, err = ecs.Put(w, child, scene.NewTransformAt(mgl64.Vec3{0, 2, 0}))
	require.NoError(t, err)
	require.NoError(t, scene.SetParent(w, child, root))
	other := w.Create()
	_, err = ecs.Put(w, other, scene.NewTransform())
	require.NoError(t, err)

	rows := collectHierarchy(w)
	require.Len(t, rows, 3)
	assert.Equal(t, root, rows[0].Entity)
	assert.Equal(t, 0, rows[0].Depth)
	assert.True(t, rows[0].Dirty)
	assert.Equal(t, child, rows[1].Entity)
	assert.Equal(t, 1, rows[1].Depth)
	assert.True(t, rows[1].WorldPosition.ApproxEqual(mgl64.Vec3{1, 2, 0}))
	assert.Equal(t, other, rows[2].Entity)

	rows = collectHierarchy(w)
	assert.False(t, rows[1].Dirty, "reading the world position clears the flag")
}

type tagged struct {
	Speed float64 `debug:"Speed (m/s)"`
	Seed  uint64  `debug:"-"`
	ID    string  `debug:",readonly"`
	Next  *health
}

func TestFieldCache(t *testing.T) {
	cache := NewFieldCache()
	fields := cache.Fields(reflect.TypeFor[health]())
	require.Len(t, fields, 3, "unexported fields are skipped")
	assert.Equal(t, "Current", fields[0].Name)
	assert.Equal(t, "Current", fields[0].Label)
	assert.Equal(t, 2, fields[2].Index)
	assert.Empty(t, cache.Fields(reflect.TypeFor[int]()))

	again := cache.Fields(reflect.TypeFor[health]())
	assert.Same(t, &fields[0], &again[0], "results are memoised")
}

func TestFieldCacheDebugTags(t *testing.T) {
	fields := NewFieldCache().Fields(reflect.TypeFor[tagged]())
	require.Len(t, fields, 3, "debug:\"-\" hides a field")

	assert.Equal(t, "Speed (m/s)", fields[0].Label)
	assert.False(t, fields[0].ReadOnly)

	assert.Equal(t, "ID", fields[1].Label)
	assert.Equal(t, 2, fields[1].Index)
	assert.True(t, fields[1].ReadOnly)

	assert.True(t, fields[2].IsPointer)
	assert.Equal(t, reflect.TypeFor[health](), fields[2].Type)
}

func TestFieldSetters(t *testing.T) {
	h := &health{}
	val := reflect.ValueOf(h).Elem()

	assert.True(t, setInt(val.Field(0), 100))
	assert.False(t, setInt(val.Field(0), 300), "int8 overflow is rejected")
	assert.Equal(t, int8(100), h.Current)

	assert.True(t, setString(val.Field(2), "boss"))
	assert.Equal(t, "boss", h.Label)

	assert.False(t, setBool(val.Field(3), true), "unexported fields are not settable")

	v := &velocity{}
	assert.True(t, setFloat(reflect.ValueOf(v).Elem().Field(1), 2.5))
	assert.Equal(t, 2.5, v.DY)
}

func TestPerformanceHistory(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)
	assert.Zero(t, ps.AverageFrameTime())

	for _, dt := range []float32{0.01, 0.02, 0.03, 0.04, 0.05} {
		ps.Record(dt)
	}
	assert.InDelta(t, 35.0, ps.AverageFrameTime(), 0.001, "the oldest sample is overwritten")
}

func TestSpawnDebugUI(t *testing.T) {
	w := newTestWorld(t)
	panels, err := SpawnDebugUI(w, nil)
	require.NoError(t, err)

	item, ok := ecs.Get[ImguiItem](w, panels.entity)
	require.True(t, ok)
	assert.NotNil(t, item.Render)

	require.NoError(t, panels.Close())
	assert.False(t, w.Alive(panels.entity))
}
