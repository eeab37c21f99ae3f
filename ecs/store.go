package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

const storeBlockSize = 64

// Store holds every component of one kind in fixed-size blocks, recycles
// freed slots and maps entities to their slot.
//
// Pointers returned by Add, Put and Get stay valid only until the next
// mutating call on the same store: a freed slot is handed to the next Add.
// Do not keep them across a tick.
type Store[T any] struct {
	world   *World
	kind    KindID
	typ     reflect.Type
	factory func() T

	blocks []*[storeBlockSize]T
	owners []Entity
	free   []int32
	slots  *intmap.Map[uint32, int32]
}

func newStore[T any](w *World, kind KindID, factory func() T) *Store[T] {
	return &Store[T]{
		world:   w,
		kind:    kind,
		typ:     reflect.TypeFor[T](),
		factory: factory,
		slots:   intmap.New[uint32, int32](64),
	}
}

// GetStore returns the World's store for T, creating it on first use.
func GetStore[T any](w *World) *Store[T] {
	kind := KindOf[T](w.registry)
	store, err := w.storeFor(kind)
	if err != nil {
		panic(err)
	}
	return store.(*Store[T])
}

// Add gives e a component initialised from the kind's factory.
func (s *Store[T]) Add(e Entity) (*T, error) {
	return s.insert(e, s.factory())
}

// Put gives e a component holding value.
func (s *Store[T]) Put(e Entity, value T) (*T, error) {
	return s.insert(e, value)
}

// Remove deletes e's component. The slot is recycled but not cleared until
// it is handed out again.
func (s *Store[T]) Remove(e Entity) error {
	if err := s.world.entities.check(e); err != nil {
		return err
	}
	return s.remove(e)
}

// Get returns e's component.
func (s *Store[T]) Get(e Entity) (*T, bool) {
	slot, ok := s.slotOf(e)
	if !ok {
		return nil, false
	}
	return s.at(slot), true
}

// Has reports whether e has a component in this store.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.slotOf(e)
	return ok
}

// All yields every stored component in slot order.
func (s *Store[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for slot, owner := range s.owners {
			if owner == Nil {
				continue
			}
			if !yield(owner, s.at(slot)) {
				return
			}
		}
	}
}

// Kind returns the bit index of T.
func (s *Store[T]) Kind() KindID { return s.kind }

// Type returns the reflect.Type of T.
func (s *Store[T]) Type() reflect.Type { return s.typ }

// Len returns the number of occupied slots.
func (s *Store[T]) Len() int { return s.slots.Len() }

// Cap returns the number of slots ever allocated.
func (s *Store[T]) Cap() int { return len(s.owners) }

// FreeSlots returns the number of slots waiting to be reused.
func (s *Store[T]) FreeSlots() int { return len(s.free) }

func (s *Store[T]) insert(e Entity, value T) (*T, error) {
	if err := s.world.entities.check(e); err != nil {
		return nil, err
	}
	if _, ok := s.slots.Get(e.Index()); ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrAlreadyPresent, s.typ, e)
	}

	slot := s.allocate()
	ptr := s.at(slot)
	*ptr = value
	s.owners[slot] = e
	s.slots.Put(e.Index(), int32(slot))
	s.world.entities.setBit(e, s.kind)

	if a, ok := any(ptr).(Attacher); ok {
		a.Attach(s.world, e)
	}
	Publish(s.world.bus, ComponentAdded{Entity: e, Kind: s.kind})
	return ptr, nil
}

// remove skips the liveness check so EntityRegistry.Destroy can use it on a
// dying entity.
func (s *Store[T]) remove(e Entity) error {
	slot, ok := s.slotOf(e)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrNotPresent, s.typ, e)
	}

	if d, ok := any(s.at(slot)).(Detacher); ok {
		d.Detach(s.world, e)
		// Detach may not take the component away itself.
		current, still := s.slots.Get(e.Index())
		invariant(still && int(current) == slot, "%s slot for %s changed during Detach", s.typ, e)
	}

	s.slots.Del(e.Index())
	s.owners[slot] = Nil
	s.free = append(s.free, int32(slot))
	s.world.entities.clearBit(e, s.kind)

	Publish(s.world.bus, ComponentRemoved{Entity: e, Kind: s.kind})
	return nil
}

func (s *Store[T]) slotOf(e Entity) (int, bool) {
	if e == Nil {
		return 0, false
	}
	slot, ok := s.slots.Get(e.Index())
	if !ok {
		return 0, false
	}
	owner := s.owners[slot]
	invariant(owner != Nil, "%s maps index %d to free slot %d", s.typ, e.Index(), slot)
	if owner != e {
		// Same index, older or newer generation.
		return 0, false
	}
	return int(slot), true
}

func (s *Store[T]) allocate() int {
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		return int(slot)
	}

	slot := len(s.owners)
	if slot/storeBlockSize >= len(s.blocks) {
		s.blocks = append(s.blocks, new([storeBlockSize]T))
	}
	s.owners = append(s.owners, Nil)
	return slot
}

func (s *Store[T]) at(slot int) *T {
	return &s.blocks[slot/storeBlockSize][slot%storeBlockSize]
}

func (s *Store[T]) getAny(e Entity) (any, bool) {
	ptr, ok := s.Get(e)
	if !ok {
		return nil, false
	}
	return ptr, true
}

// putFrom copies the T at src into a new component of e.
func (s *Store[T]) putFrom(e Entity, src unsafe.Pointer) error {
	_, err := s.insert(e, *(*T)(src))
	return err
}

func (s *Store[T]) pointer(e Entity) unsafe.Pointer {
	ptr, ok := s.Get(e)
	if !ok {
		return nil
	}
	return unsafe.Pointer(ptr)
}
