package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

func TestRenderQueueSystem(t *testing.T) {
	w := newWorld(t)
	scheduler := ecs.NewScheduler(w)
	render := &scene.RenderQueueSystem{}
	require.NoError(t, scheduler.Register(render))

	root, _ := spawnAt(t, w, mgl64.Vec3{10, 0, 0})
	_, err := ecs.Put(w, root, scene.NewModel("sun"))
	require.NoError(t, err)

	moon, moonT := spawnAt(t, w, mgl64.Vec3{2, 0, 0})
	require.NoError(t, moonT.SetParent(root))
	_, err = ecs.Put(w, moon, scene.NewModel("moon"))
	require.NoError(t, err)

	hidden, _ := spawnAt(t, w, mgl64.Vec3{3, 0, 0})
	model, err := ecs.Put(w, hidden, scene.NewModel("hidden"))
	require.NoError(t, err)
	model.Visible = false

	require.NoError(t, scheduler.Tick(1.0/60))

	list := ecs.NewSingleton[scene.DrawList](w).Get()
	require.Len(t, list.Items, 2)
	assert.Equal(t, "sun", list.Items[0].Mesh)
	assert.Equal(t, root, list.Items[0].Entity)
	assert.Equal(t, "moon", list.Items[1].Mesh)
	assertVec(t, mgl64.Vec3{12, 0, 0}, list.Items[1].World.Col(3).Vec3())

	hiddenModel, _ := ecs.Get[scene.Model](w, hidden)
	assertVec(t, mgl64.Vec3{3, 0, 0}, hiddenModel.Matrix().Col(3).Vec3())

	rootT, _ := ecs.Get[scene.Transform](w, root)
	rootT.SetPosition(mgl64.Vec3{20, 0, 0})
	require.NoError(t, scheduler.Tick(1.0/60))

	require.Len(t, list.Items, 2)
	assertVec(t, mgl64.Vec3{22, 0, 0}, list.Items[1].World.Col(3).Vec3())
}

func TestCameraSystem(t *testing.T) {
	w := newWorld(t)
	scheduler := ecs.NewScheduler(w)
	require.NoError(t, scheduler.Register(&scene.CameraSystem{}))

	require.NoError(t, scheduler.Tick(0))
	state := ecs.NewSingleton[scene.ViewState](w).Get()
	assert.Equal(t, ecs.Nil, state.Camera)

	inactive, _ := spawnAt(t, w, mgl64.Vec3{})
	cam, err := ecs.Add[scene.Camera](w, inactive)
	require.NoError(t, err)
	cam.Active = false

	active, _ := spawnAt(t, w, mgl64.Vec3{0, 0, 5})
	_, err = ecs.Add[scene.Camera](w, active)
	require.NoError(t, err)

	require.NoError(t, scheduler.Tick(0))
	assert.Equal(t, active, state.Camera)

	// The view moves the world opposite to the camera.
	p := state.View.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	assertVec(t, mgl64.Vec3{0, 0, -5}, p)
	assert.True(t, state.Projection.Mul4(state.View).ApproxEqual(state.ViewProjection))
}
