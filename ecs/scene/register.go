package scene

import "github.com/plus3/scenegraph/ecs"

// Register adds the scene component kinds to registry with their factories.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponentFunc(registry, NewTransform)
	ecs.RegisterComponentFunc(registry, func() Model { return NewModel("") })
	ecs.RegisterComponentFunc(registry, NewCamera)
}
