package ecs

import (
	"fmt"
	"iter"
)

type entitySlot struct {
	generation uint32
	alive      bool
	dying      bool
	bits       Bitset
}

// EntityRegistry owns entity identities, their liveness and their component
// bitsets. Indices are never removed from the backing array; destroyed
// indices are recycled oldest-first with a bumped generation.
type EntityRegistry struct {
	world *World
	slots []entitySlot
	free  []uint32
	live  int
}

func newEntityRegistry(w *World) *EntityRegistry {
	return &EntityRegistry{world: w}
}

// Create allocates an entity with an empty bitset and publishes EntityCreated.
func (r *EntityRegistry) Create() Entity {
	var index uint32
	if len(r.free) > 0 {
		index = r.free[0]
		r.free = r.free[1:]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, entitySlot{generation: 1})
	}

	slot := &r.slots[index]
	invariant(!slot.alive && slot.bits.IsZero(), "reused index %d is not clean", index)
	slot.alive = true
	r.live++

	e := NewEntity(index, slot.generation)
	Publish(r.world.bus, EntityCreated{Entity: e})
	return e
}

// Destroy removes every component of e in ascending kind order, frees its
// index and publishes EntityDestroyed. Destroying a dead entity returns
// ErrAlreadyDestroyed. If its index has since been reused the error also
// matches ErrStaleEntity. Handles that never named an entity return
// ErrStaleEntity only.
func (r *EntityRegistry) Destroy(e Entity) error {
	if err := r.check(e); err != nil {
		if r.recycled(e) {
			return fmt.Errorf("%w: %w: %s", ErrAlreadyDestroyed, ErrStaleEntity, e)
		}
		return err
	}

	index := e.Index()
	r.slots[index].dying = true

	// Handlers may create entities and grow r.slots, so the slot is
	// re-indexed after every removal instead of holding a pointer.
	for kind := range r.slots[index].bits.Kinds() {
		store := r.world.stores[kind]
		invariant(store != nil, "entity %s has bit %d without a store", e, kind)
		if err := store.remove(e); err != nil {
			invariant(false, "store %s lost entity %s: %v", store.Type(), e, err)
		}
	}

	slot := &r.slots[index]
	invariant(slot.bits.IsZero(), "entity %s still has components after removal", e)
	slot.bits = Bitset{}
	slot.alive = false
	slot.dying = false
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	r.free = append(r.free, index)
	r.live--

	Publish(r.world.bus, EntityDestroyed{Entity: e})
	return nil
}

// Alive reports whether e names a live entity that is not being destroyed.
func (r *EntityRegistry) Alive(e Entity) bool {
	return r.status(e) == statusAlive
}

// Bits returns the component bitset of a live entity. Entities being
// destroyed report false, so they never match a Filter.
func (r *EntityRegistry) Bits(e Entity) (Bitset, bool) {
	if r.status(e) != statusAlive {
		return Bitset{}, false
	}
	return r.slots[e.Index()].bits, true
}

// Len returns the number of live entities.
func (r *EntityRegistry) Len() int {
	return r.live
}

// Cap returns the number of indices ever allocated.
func (r *EntityRegistry) Cap() int {
	return len(r.slots)
}

// FreeIndices returns the number of indices waiting to be reused.
func (r *EntityRegistry) FreeIndices() int {
	return len(r.free)
}

// All yields every live entity in ascending index order.
func (r *EntityRegistry) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := 0; i < len(r.slots); i++ {
			slot := r.slots[i]
			if !slot.alive || slot.dying {
				continue
			}
			if !yield(NewEntity(uint32(i), slot.generation)) {
				return
			}
		}
	}
}

type entityStatus int

const (
	statusAlive entityStatus = iota
	statusDestroyed
	statusStale
)

// status classifies a handle: alive, dead (or mid-destruction) and not yet
// reused, or stale.
func (r *EntityRegistry) status(e Entity) entityStatus {
	index := e.Index()
	if e == Nil || int(index) >= len(r.slots) {
		return statusStale
	}

	slot := &r.slots[index]
	switch {
	case slot.generation == e.Generation() && slot.alive && !slot.dying:
		return statusAlive
	case slot.generation == e.Generation() && slot.dying:
		return statusDestroyed
	case slot.generation == e.Generation()+1 && !slot.alive:
		return statusDestroyed
	default:
		return statusStale
	}
}

// recycled reports whether e names an entity that was destroyed and whose
// index now carries a newer generation.
func (r *EntityRegistry) recycled(e Entity) bool {
	index := e.Index()
	if e == Nil || int(index) >= len(r.slots) {
		return false
	}
	return e.Generation() < r.slots[index].generation
}

func (r *EntityRegistry) check(e Entity) error {
	switch r.status(e) {
	case statusAlive:
		return nil
	case statusDestroyed:
		return fmt.Errorf("%w: %s", ErrAlreadyDestroyed, e)
	default:
		return fmt.Errorf("%w: %s", ErrStaleEntity, e)
	}
}

func (r *EntityRegistry) setBit(e Entity, kind KindID) {
	slot := &r.slots[e.Index()]
	invariant(slot.alive && slot.generation == e.Generation(), "setting bit %d on dead entity %s", kind, e)
	slot.bits.Set(kind)
}

func (r *EntityRegistry) clearBit(e Entity, kind KindID) {
	slot := &r.slots[e.Index()]
	invariant(slot.alive && slot.generation == e.Generation(), "clearing bit %d on dead entity %s", kind, e)
	slot.bits.Clear(kind)
}
