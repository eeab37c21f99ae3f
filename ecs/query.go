package ecs

import (
	"iter"
)

// Query is a View declared as a system field. The Scheduler binds it to the
// World during Register, so a system only names the shape it wants:
//
//	type MoveSystem struct {
//		Movers ecs.Query[struct {
//			*Position
//			*Velocity
//		}]
//	}
type Query[T any] struct {
	view *View[T]
}

// NewQuery creates a Query bound to w.
func NewQuery[T any](w *World) *Query[T] {
	q := &Query[T]{}
	q.Init(w)
	return q
}

// Init binds the Query to w. Re-initialising a bound Query closes its old
// Family first.
func (q *Query[T]) Init(w *World) {
	if q.view != nil {
		q.view.family.Close()
	}
	q.view = NewView[T](w)
}

// Iter yields matching entities with their populated view structs.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	q.mustBeBound()
	return q.view.Iter()
}

// Values yields the view structs only.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeBound()
	return q.view.Values()
}

// Get returns the view struct for e, or nil if e does not match.
func (q *Query[T]) Get(e Entity) *T {
	q.mustBeBound()
	return q.view.Get(e)
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	q.mustBeBound()
	return q.view.Len()
}

// Family returns the Family behind the Query.
func (q *Query[T]) Family() *Family {
	q.mustBeBound()
	return q.view.family
}

// Entities returns a snapshot of the matching entities, safe to range over
// while mutating the World directly.
func (q *Query[T]) Entities() []Entity {
	q.mustBeBound()
	return q.view.family.Snapshot()
}

func (q *Query[T]) mustBeBound() {
	if q.view == nil {
		panic("ecs: Query used before Init; register the system with a Scheduler or call NewQuery")
	}
}
