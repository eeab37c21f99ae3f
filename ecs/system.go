package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems implement this interface and can include Query and
// Singleton fields, which the Scheduler binds on Register, as well as custom
// state fields that persist between frames.
type System interface {
	Update(frame *UpdateFrame)
}

// Initializer is implemented by systems that build their own Families or
// other World state when registered.
type Initializer interface {
	Init(w *World) error
}

// worldBinder is implemented by the address of system fields the Scheduler
// binds to its World, such as Query and Singleton.
type worldBinder interface {
	Init(w *World)
}
