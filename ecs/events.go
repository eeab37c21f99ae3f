package ecs

// EntityCreated is published after an entity becomes alive.
type EntityCreated struct {
	Entity Entity
}

// EntityDestroyed is published after an entity's components are removed and
// its index is freed. The handle is already stale when handlers run.
type EntityDestroyed struct {
	Entity Entity
}

// ComponentAdded is published after a component is stored and its bit set.
type ComponentAdded struct {
	Entity Entity
	Kind   KindID
}

// ComponentRemoved is published after a component's slot is freed and its bit cleared.
type ComponentRemoved struct {
	Entity Entity
	Kind   KindID
}
