package ecs

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"
)

// World is one independent simulation: an EntityRegistry, an EventBus, one
// Store per component kind in use, and the Families built over them.
// Worlds share nothing but their ComponentRegistry, so any number may exist.
type World struct {
	id         uuid.UUID
	registry   *ComponentRegistry
	bus        *EventBus
	entities   *EntityRegistry
	stores     [MaxKinds]componentStore
	families   []*Family
	singletons map[reflect.Type]any
	logger     *slog.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The World adds its ID to every record.
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithID fixes the World's ID instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(w *World) {
		w.id = id
	}
}

// NewWorld creates an empty World whose component kinds come from registry.
func NewWorld(registry *ComponentRegistry, opts ...Option) *World {
	w := &World{
		id:         uuid.New(),
		registry:   registry,
		bus:        NewEventBus(),
		singletons: make(map[reflect.Type]any),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.entities = newEntityRegistry(w)
	w.logger = w.logger.With("world", w.id.String())
	w.logger.Debug("ecs: world created", "kinds", registry.Len())
	return w
}

// ID returns the World's identifier.
func (w *World) ID() uuid.UUID { return w.id }

// Registry returns the component registry.
func (w *World) Registry() *ComponentRegistry { return w.registry }

// Events returns the World's event bus.
func (w *World) Events() *EventBus { return w.bus }

// Entities returns the entity registry.
func (w *World) Entities() *EntityRegistry { return w.entities }

// Logger returns the World's logger.
func (w *World) Logger() *slog.Logger { return w.logger }

// Families returns the families following this World, in creation order.
func (w *World) Families() []*Family { return w.families }

// Create is shorthand for Entities().Create().
func (w *World) Create() Entity {
	return w.entities.Create()
}

// Destroy is shorthand for Entities().Destroy(e).
func (w *World) Destroy(e Entity) error {
	return w.entities.Destroy(e)
}

// Alive is shorthand for Entities().Alive(e).
func (w *World) Alive(e Entity) bool {
	return w.entities.Alive(e)
}

// Component returns a pointer to e's component of the given kind, typed as any.
func (w *World) Component(e Entity, kind KindID) (any, bool) {
	store := w.stores[kind]
	if store == nil {
		return nil, false
	}
	return store.getAny(e)
}

// Remove removes e's component of the given kind.
func (w *World) Remove(e Entity, kind KindID) error {
	if err := w.entities.check(e); err != nil {
		return err
	}
	store, err := w.storeFor(kind)
	if err != nil {
		return err
	}
	return store.remove(e)
}

// Get returns e's component of type T.
func Get[T any](w *World, e Entity) (*T, bool) {
	return GetStore[T](w).Get(e)
}

// Add gives e a default-initialised component of type T.
func Add[T any](w *World, e Entity) (*T, error) {
	return GetStore[T](w).Add(e)
}

// Put gives e a component of type T holding value.
func Put[T any](w *World, e Entity, value T) (*T, error) {
	return GetStore[T](w).Put(e, value)
}

// Remove takes e's component of type T away.
func Remove[T any](w *World, e Entity) error {
	return GetStore[T](w).Remove(e)
}

// storeFor returns the store of kind, building it from the registry on first use.
func (w *World) storeFor(kind KindID) (componentStore, error) {
	if store := w.stores[kind]; store != nil {
		return store, nil
	}
	build, err := w.registry.storeFactory(kind)
	if err != nil {
		return nil, err
	}
	store := build(w, kind)
	w.stores[kind] = store
	return store, nil
}
