package ecs

import (
	"reflect"
	"unsafe"
)

// componentStore is the type-erased face of a Store[T], used by the World
// for cascading removal, inspection and views.
type componentStore interface {
	Kind() KindID
	Type() reflect.Type
	Len() int
	Cap() int
	FreeSlots() int
	Has(e Entity) bool
	getAny(e Entity) (any, bool)
	pointer(e Entity) unsafe.Pointer
	putFrom(e Entity, src unsafe.Pointer) error
	remove(e Entity) error
}

// Attacher is implemented by components that need to initialise themselves
// once their slot is assigned. Attach runs before ComponentAdded is published.
type Attacher interface {
	Attach(w *World, e Entity)
}

// Detacher is implemented by components that need cleanup before their slot
// is freed. Detach runs before ComponentRemoved is published.
type Detacher interface {
	Detach(w *World, e Entity)
}
