package ecs

import (
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Family is a live query result: the ordered list of entities whose bitset
// matches a Filter. It is never rebuilt; every ComponentAdded,
// ComponentRemoved, EntityCreated and EntityDestroyed event re-tests the one
// affected entity and patches the list. Iteration order is insertion order.
type Family struct {
	world    *World
	filter   Filter
	interest Bitset

	members []Entity
	index   *intmap.Map[uint32, int32]

	iterating int
	subs      []Subscription
}

// NewFamily creates a Family for filter, seeds it with the live entities
// that already match (in ascending index order) and subscribes it to the
// World's events. Families normally live as long as their World.
func NewFamily(w *World, filter Filter) *Family {
	f := &Family{
		world:    w,
		filter:   filter,
		interest: filter.interest(),
		index:    intmap.New[uint32, int32](64),
	}

	for e := range w.entities.All() {
		if bits, _ := w.entities.Bits(e); filter.Matches(bits) {
			f.insert(e)
		}
	}

	f.subs = append(f.subs,
		Subscribe(w.bus, f.onEntityCreated),
		Subscribe(w.bus, f.onEntityDestroyed),
		Subscribe(w.bus, f.onComponentAdded),
		Subscribe(w.bus, f.onComponentRemoved),
	)

	w.families = append(w.families, f)
	w.logger.Debug("ecs: family created",
		"filter", filter.Describe(w.registry),
		"members", len(f.members),
	)
	return f
}

// Filter returns the predicate the family maintains.
func (f *Family) Filter() Filter {
	return f.filter
}

// Len returns the number of members.
func (f *Family) Len() int {
	return len(f.members)
}

// Contains reports whether e is a member.
func (f *Family) Contains(e Entity) bool {
	pos, ok := f.index.Get(e.Index())
	return ok && f.members[pos] == e
}

// All yields the members in insertion order. While the sequence is being
// ranged over, any change to this family's membership panics with
// ErrConcurrentModification; queue structural changes on the frame's
// Commands or range over Snapshot instead.
func (f *Family) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		f.iterating++
		defer func() { f.iterating-- }()

		for _, e := range f.members {
			if !yield(e) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the members in insertion order.
func (f *Family) Snapshot() []Entity {
	return slices.Clone(f.members)
}

// Validate checks that the ordered list and the membership index agree, that
// every member still matches the filter and that every matching live entity
// is a member. A closed family stops following the World and is expected to
// fail once the World changes.
func (f *Family) Validate() error {
	if f.index.Len() != len(f.members) {
		return fmt.Errorf("ecs: family index has %d entries, list has %d", f.index.Len(), len(f.members))
	}
	for pos, e := range f.members {
		got, ok := f.index.Get(e.Index())
		if !ok || int(got) != pos {
			return fmt.Errorf("ecs: family index for %s is %d, want %d", e, got, pos)
		}
		bits, alive := f.world.entities.Bits(e)
		if !alive || !f.filter.Matches(bits) {
			return fmt.Errorf("ecs: family member %s no longer matches %s", e, f.filter.Describe(f.world.registry))
		}
	}
	for e := range f.world.entities.All() {
		bits, _ := f.world.entities.Bits(e)
		if f.filter.Matches(bits) && !f.Contains(e) {
			return fmt.Errorf("ecs: %s matches %s but is not a member", e, f.filter.Describe(f.world.registry))
		}
	}
	return nil
}

// Close unsubscribes the family and detaches it from its World. A closed
// family keeps its last membership and no longer follows the World.
func (f *Family) Close() {
	for _, sub := range f.subs {
		f.world.bus.Unsubscribe(sub)
	}
	f.subs = nil
	f.world.families = slices.DeleteFunc(f.world.families, func(other *Family) bool { return other == f })
}

func (f *Family) onEntityCreated(ev EntityCreated) {
	if f.filter.MatchesEmpty() {
		f.update(ev.Entity)
	}
}

func (f *Family) onEntityDestroyed(ev EntityDestroyed) {
	f.update(ev.Entity)
}

func (f *Family) onComponentAdded(ev ComponentAdded) {
	if f.interest.Has(ev.Kind) {
		f.update(ev.Entity)
	}
}

func (f *Family) onComponentRemoved(ev ComponentRemoved) {
	if f.interest.Has(ev.Kind) {
		f.update(ev.Entity)
	}
}

// update re-tests a single entity and patches the membership.
func (f *Family) update(e Entity) {
	present := f.Contains(e)
	bits, alive := f.world.entities.Bits(e)
	match := alive && f.filter.Matches(bits)

	switch {
	case match && !present:
		f.guard(e)
		f.insert(e)
	case !match && present:
		f.guard(e)
		f.delete(e)
	}
}

func (f *Family) guard(e Entity) {
	if f.iterating > 0 {
		panic(fmt.Errorf("%w: %s changed membership of %s", ErrConcurrentModification, e, f.filter.Describe(f.world.registry)))
	}
}

func (f *Family) insert(e Entity) {
	_, taken := f.index.Get(e.Index())
	invariant(!taken, "family already indexes %d", e.Index())
	f.index.Put(e.Index(), int32(len(f.members)))
	f.members = append(f.members, e)
}

func (f *Family) delete(e Entity) {
	pos, ok := f.index.Get(e.Index())
	invariant(ok && f.members[pos] == e, "family index and list disagree on %s", e)

	f.index.Del(e.Index())
	f.members = slices.Delete(f.members, int(pos), int(pos)+1)
	for i := int(pos); i < len(f.members); i++ {
		f.index.Put(f.members[i].Index(), int32(i))
	}
}
