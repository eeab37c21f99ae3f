package scene

import "errors"

var (
	// ErrHierarchyCycle is returned when a reparent would make a transform
	// its own ancestor.
	ErrHierarchyCycle = errors.New("scene: hierarchy cycle")
	// ErrNoTransform is returned when an entity named in a hierarchy
	// operation has no Transform.
	ErrNoTransform = errors.New("scene: entity has no transform")
	// ErrNotAttached is returned by hierarchy operations on a Transform value
	// that does not live in a World's store.
	ErrNotAttached = errors.New("scene: transform is not attached to an entity")
)
