package scene

import (
	"fmt"
	"iter"

	"github.com/plus3/scenegraph/ecs"
)

// SetParent moves child's Transform under parent's, or makes it a root when
// parent is ecs.Nil.
func SetParent(w *ecs.World, child, parent ecs.Entity) error {
	t, ok := ecs.Get[Transform](w, child)
	if !ok {
		return fmt.Errorf("%w: child %s", ErrNoTransform, child)
	}
	return t.SetParent(parent)
}

// Roots yields every entity whose Transform has no parent, in store order.
func Roots(w *ecs.World) iter.Seq[ecs.Entity] {
	return func(yield func(ecs.Entity) bool) {
		for e, t := range ecs.GetStore[Transform](w).All() {
			if t.parent != ecs.Nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Walk visits root and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func Walk(w *ecs.World, root ecs.Entity, fn func(e ecs.Entity, t *Transform, depth int) bool) {
	store := ecs.GetStore[Transform](w)
	var visit func(e ecs.Entity, depth int)
	visit = func(e ecs.Entity, depth int) {
		t, ok := store.Get(e)
		if !ok || !fn(e, t, depth) {
			return
		}
		for _, child := range t.Children() {
			visit(child, depth+1)
		}
	}
	visit(root, 0)
}
