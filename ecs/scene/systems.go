package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
)

// ViewState is the World singleton CameraSystem writes for the renderer.
type ViewState struct {
	Camera         ecs.Entity
	View           mgl64.Mat4
	Projection     mgl64.Mat4
	ViewProjection mgl64.Mat4
}

// CameraSystem picks the first active camera in Family order and publishes
// its matrices through the ViewState singleton. With no active camera the
// ViewState keeps Camera == ecs.Nil and identity matrices.
type CameraSystem struct {
	Cameras ecs.Query[struct {
		Entity ecs.Entity
		*Transform
		*Camera
	}]
	View ecs.Singleton[ViewState]
}

// Update resets the ViewState and fills it from the first active camera.
func (s *CameraSystem) Update(frame *ecs.UpdateFrame) {
	state := s.View.Get()
	*state = ViewState{
		View:           mgl64.Ident4(),
		Projection:     mgl64.Ident4(),
		ViewProjection: mgl64.Ident4(),
	}

	for item := range s.Cameras.Values() {
		if !item.Camera.Active {
			continue
		}
		state.Camera = item.Entity
		state.View = item.Transform.Inverse()
		state.Projection = item.Camera.Projection()
		state.ViewProjection = state.Projection.Mul4(state.View)
		return
	}
}

// DrawItem is one visible model for the renderer.
type DrawItem struct {
	Entity ecs.Entity
	Mesh   string
	World  mgl64.Mat4
	Tint   mgl64.Vec4
}

// DrawList is the World singleton RenderQueueSystem fills every tick.
type DrawList struct {
	Items []DrawItem
}

// RenderQueueSystem collects the visible models into the DrawList in Family
// order and records each model's world matrix.
type RenderQueueSystem struct {
	Models ecs.Query[struct {
		Entity ecs.Entity
		*Transform
		*Model
	}]
	Draws ecs.Singleton[DrawList]
}

// Update rebuilds the DrawList from every visible model.
func (s *RenderQueueSystem) Update(frame *ecs.UpdateFrame) {
	list := s.Draws.Get()
	list.Items = list.Items[:0]

	for item := range s.Models.Values() {
		world := item.Transform.World()
		item.Model.matrix = world
		if !item.Model.Visible {
			continue
		}
		list.Items = append(list.Items, DrawItem{
			Entity: item.Entity,
			Mesh:   item.Model.Mesh,
			World:  world,
			Tint:   item.Model.Tint,
		})
	}
}
