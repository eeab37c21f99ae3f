package scene

import "github.com/plus3/scenegraph/ecs"

// ParentChanged is published whenever a transform's parent changes, including
// when its parent loses its Transform and the child becomes a root.
type ParentChanged struct {
	Child ecs.Entity
	Old   ecs.Entity
	New   ecs.Entity
}
