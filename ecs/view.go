package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"
)

type fieldRole uint8

const (
	roleRequired fieldRole = iota
	roleOptional
	roleAny
	roleExclude
	roleEntity
)

type viewField struct {
	kind   KindID
	typ    reflect.Type
	role   fieldRole
	offset uintptr
}

var entityType = reflect.TypeFor[Entity]()

// View is a typed window over a Family. T must be a struct whose fields are
// pointers to component types:
//
//   - embedded fields are always required
//   - named fields are required unless tagged
//   - `ecs:"optional"` fields are filled when present and nil otherwise
//   - `ecs:"any"` fields form a group of which at least one must be present
//   - `ecs:"exclude"` fields must be absent and are always nil
//
// A field of type Entity receives the entity being visited.
type View[T any] struct {
	world  *World
	fields []viewField
	family *Family
}

// NewView builds a View for T and the Family behind it. Extra filters are
// merged into the one derived from T's fields.
func NewView[T any](w *World, extra ...Filter) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	v := &View[T]{world: w}
	var filter Filter
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type == entityType {
			v.fields = append(v.fields, viewField{role: roleEntity, offset: field.Offset})
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("ecs: View field %s must be a pointer to a component", field.Name))
		}

		vf := viewField{
			typ:    field.Type.Elem(),
			role:   parseRole(field),
			offset: field.Offset,
		}
		kind, err := w.registry.Lookup(vf.typ)
		if err != nil {
			panic(fmt.Errorf("ecs: View field %s: %w", field.Name, err))
		}
		vf.kind = kind

		switch vf.role {
		case roleRequired:
			filter = filter.Require(kind)
		case roleAny:
			filter = filter.Any(kind)
		case roleExclude:
			filter = filter.Exclude(kind)
		}
		v.fields = append(v.fields, vf)
	}

	for _, f := range extra {
		filter = filter.Merge(f)
	}
	v.family = NewFamily(w, filter)
	return v
}

func parseRole(field reflect.StructField) fieldRole {
	if field.Anonymous {
		return roleRequired
	}
	switch tag := field.Tag.Get("ecs"); tag {
	case "":
		return roleRequired
	case "optional":
		return roleOptional
	case "any":
		return roleAny
	case "exclude":
		return roleExclude
	default:
		panic("ecs: invalid ecs tag value: \"" + tag + "\" (want optional, any or exclude)")
	}
}

// Family returns the Family the view iterates.
func (v *View[T]) Family() *Family {
	return v.family
}

// Len returns the number of matching entities.
func (v *View[T]) Len() int {
	return v.family.Len()
}

// Fill populates ptr with e's components. It returns false if e does not
// match the view.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	if !v.family.Contains(e) {
		return false
	}
	return v.fill(e, unsafe.Pointer(ptr))
}

// Get returns a populated view struct for e, or nil if e does not match.
func (v *View[T]) Get(e Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter yields every matching entity with its populated view struct, in
// Family order. Structural changes that move an entity into or out of the
// view's Family panic while the sequence is being ranged over.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		resultPtr := unsafe.Pointer(&result)
		for e := range v.family.All() {
			if !v.fill(e, resultPtr) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values yields the view structs without their entities.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity holding a copy of every non-nil component field
// of data. A nil required field panics.
func (v *View[T]) Spawn(data T) (Entity, error) {
	structPtr := unsafe.Pointer(&data)
	for _, f := range v.fields {
		if f.role != roleRequired {
			continue
		}
		if *(*unsafe.Pointer)(unsafe.Add(structPtr, f.offset)) == nil {
			panic("ecs: required component " + f.typ.String() + " is nil in View.Spawn")
		}
	}

	e := v.world.Create()
	for _, f := range v.fields {
		if f.role == roleEntity || f.role == roleExclude {
			continue
		}
		src := *(*unsafe.Pointer)(unsafe.Add(structPtr, f.offset))
		if src == nil {
			continue
		}
		store, err := v.world.storeFor(f.kind)
		if err != nil {
			return e, err
		}
		if err := store.putFrom(e, src); err != nil {
			return e, err
		}
	}
	return e, nil
}

func (v *View[T]) fill(e Entity, resultPtr unsafe.Pointer) bool {
	for _, f := range v.fields {
		fieldPtr := unsafe.Add(resultPtr, f.offset)
		if f.role == roleEntity {
			*(*Entity)(fieldPtr) = e
			continue
		}

		var component unsafe.Pointer
		if f.role != roleExclude {
			if store := v.world.stores[f.kind]; store != nil {
				component = store.pointer(e)
			}
		}
		if component == nil && f.role == roleRequired {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = component
	}
	return true
}
