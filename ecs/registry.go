package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// KindID is the bit index a component kind occupies in every Bitset.
type KindID uint8

type kindInfo struct {
	typ      reflect.Type
	name     string
	newStore func(w *World, kind KindID) componentStore
}

// ComponentRegistry assigns each component kind a stable bit index and keeps
// the factory used to build its default value. A registry may be shared by
// several Worlds; each World builds its own stores from it.
type ComponentRegistry struct {
	mu    sync.RWMutex
	kinds map[reflect.Type]KindID
	infos []kindInfo
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		kinds: make(map[reflect.Type]KindID),
	}
}

// RegisterComponent registers T with its zero value as the default.
func RegisterComponent[T any](r *ComponentRegistry) KindID {
	return RegisterComponentFunc(r, func() T {
		var zero T
		return zero
	})
}

// RegisterComponentFunc registers T with an explicit factory for its default
// value. Registering an already known kind replaces the factory for stores
// built afterwards and keeps the bit index.
func RegisterComponentFunc[T any](r *ComponentRegistry, factory func() T) KindID {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("ecs: components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	build := func(w *World, kind KindID) componentStore {
		return newStore(w, kind, factory)
	}

	if kind, ok := r.kinds[t]; ok {
		r.infos[kind].newStore = build
		return kind
	}

	if len(r.infos) >= MaxKinds {
		panic(fmt.Sprintf("ecs: component kind limit exceeded (max %d kinds)", MaxKinds))
	}

	kind := KindID(len(r.infos))
	r.kinds[t] = kind
	r.infos = append(r.infos, kindInfo{
		typ:      t,
		name:     t.String(),
		newStore: build,
	})
	return kind
}

// KindOf returns the bit index of T, assigning the next free index with a
// zero-value factory on first request.
func KindOf[T any](r *ComponentRegistry) KindID {
	t := reflect.TypeFor[T]()

	r.mu.RLock()
	kind, ok := r.kinds[t]
	r.mu.RUnlock()
	if ok {
		return kind
	}

	return RegisterComponent[T](r)
}

// Lookup returns the bit index of an already known type.
func (r *ComponentRegistry) Lookup(t reflect.Type) (KindID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, t)
	}
	return kind, nil
}

// Name returns the type name of a kind, or "" if the kind is unknown.
func (r *ComponentRegistry) Name(kind KindID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(kind) >= len(r.infos) {
		return ""
	}
	return r.infos[kind].name
}

// Type returns the reflect.Type of a kind, or nil if the kind is unknown.
func (r *ComponentRegistry) Type(kind KindID) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(kind) >= len(r.infos) {
		return nil
	}
	return r.infos[kind].typ
}

// Len returns the number of known kinds.
func (r *ComponentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.infos)
}

// Names returns the names of the kinds set in bits, in ascending kind order.
func (r *ComponentRegistry) Names(bits Bitset) []string {
	names := make([]string, 0, bits.Count())
	for kind := range bits.Kinds() {
		names = append(names, r.Name(kind))
	}
	return names
}

// storeFactory returns the store constructor for a kind.
func (r *ComponentRegistry) storeFactory(kind KindID) (func(w *World, kind KindID) componentStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(kind) >= len(r.infos) {
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownKind, kind)
	}
	return r.infos[kind].newStore, nil
}
