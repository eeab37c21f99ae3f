package ecs

import (
	"reflect"
)

// Singleton provides access to a single value that belongs to the World
// rather than to an entity. Use this for frame-wide state such as the draw
// list or debug UI input capture.
type Singleton[T any] struct {
	world *World
	ptr   *T
}

// NewSingleton returns an accessor for the World's T, creating it from
// initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	s := &Singleton[T]{}
	s.bind(w, initializer...)
	return s
}

// Init binds the accessor to w, creating a zero T if needed. It is called
// automatically by the Scheduler for Singleton fields of a registered system.
func (s *Singleton[T]) Init(w *World) {
	s.bind(w)
}

// Get returns a pointer to the value, or nil if the accessor is unbound.
func (s *Singleton[T]) Get() *T {
	return s.ptr
}

// Set replaces the value.
func (s *Singleton[T]) Set(value T) {
	*s.ptr = value
}

// Exists reports whether the accessor is bound to a World.
func (s *Singleton[T]) Exists() bool {
	return s.ptr != nil
}

func (s *Singleton[T]) bind(w *World, initializer ...T) {
	t := reflect.TypeFor[T]()
	s.world = w
	if existing, ok := w.singletons[t]; ok {
		s.ptr = existing.(*T)
		return
	}

	value := new(T)
	if len(initializer) > 0 {
		*value = initializer[0]
	}
	w.singletons[t] = value
	s.ptr = value
}
