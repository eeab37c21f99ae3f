package scene

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
)

// Transform is a node of the scene hierarchy. It caches its local, world and
// inverse-world matrices and recomputes each only when read while dirty.
//
// Writing position, scale or rotation, or changing the parent, marks the
// world and inverse matrices dirty on this node and on every descendant at
// write time. A dirty flag is cleared only by recomputing its matrix.
//
// Hierarchy links are entity handles resolved through the World's Transform
// store, so a Transform must be added to an entity before SetParent is used.
type Transform struct {
	position mgl64.Vec3
	scale    mgl64.Vec3
	rotation mgl64.Quat

	local   mgl64.Mat4
	world   mgl64.Mat4
	inverse mgl64.Mat4

	localDirty   bool
	worldDirty   bool
	inverseDirty bool

	self     ecs.Entity
	parent   ecs.Entity
	children []ecs.Entity
	owner    *ecs.World
	store    *ecs.Store[Transform]
}

// NewTransform returns a transform at the origin with unit scale and no rotation.
func NewTransform() Transform {
	return Transform{
		scale:        mgl64.Vec3{1, 1, 1},
		rotation:     mgl64.QuatIdent(),
		local:        mgl64.Ident4(),
		world:        mgl64.Ident4(),
		inverse:      mgl64.Ident4(),
		localDirty:   true,
		worldDirty:   true,
		inverseDirty: true,
	}
}

// NewTransformAt returns a transform at position with unit scale and no rotation.
func NewTransformAt(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.position = position
	return t
}

// Attach binds the transform to its entity. Links copied in with the value
// are dropped: a newly added Transform is always a root with no children.
func (t *Transform) Attach(w *ecs.World, e ecs.Entity) {
	t.self = e
	t.owner = w
	t.store = ecs.GetStore[Transform](w)
	t.parent = ecs.Nil
	t.children = nil
	t.localDirty = true
	t.worldDirty = true
	t.inverseDirty = true
}

// Detach unlinks the transform from its parent and turns its children into
// roots.
func (t *Transform) Detach(w *ecs.World, e ecs.Entity) {
	if p := t.parentTransform(); p != nil {
		p.removeChild(e)
	}
	t.parent = ecs.Nil

	children := t.children
	t.children = nil
	for _, child := range children {
		ct, ok := t.store.Get(child)
		if !ok {
			continue
		}
		ct.parent = ecs.Nil
		ct.invalidate()
		ecs.Publish(w.Events(), ParentChanged{Child: child, Old: e, New: ecs.Nil})
	}
}

// Entity returns the entity the transform belongs to, or ecs.Nil.
func (t *Transform) Entity() ecs.Entity { return t.self }

// Position returns the local position.
func (t *Transform) Position() mgl64.Vec3 { return t.position }

// Scale returns the local scale.
func (t *Transform) Scale() mgl64.Vec3 { return t.scale }

// Rotation returns the local rotation.
func (t *Transform) Rotation() mgl64.Quat { return t.rotation }

// SetPosition sets the local position.
func (t *Transform) SetPosition(position mgl64.Vec3) {
	t.position = position
	t.touch()
}

// SetScale sets the local scale.
func (t *Transform) SetScale(scale mgl64.Vec3) {
	t.scale = scale
	t.touch()
}

// SetRotation sets the local rotation.
func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.rotation = rotation.Normalize()
	t.touch()
}

// Translate moves the transform by delta in its parent's space.
func (t *Transform) Translate(delta mgl64.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// Rotate applies rotation after the current one.
func (t *Transform) Rotate(rotation mgl64.Quat) {
	t.SetRotation(rotation.Mul(t.rotation))
}

// Local returns translate × rotate × scale.
func (t *Transform) Local() mgl64.Mat4 {
	if t.localDirty {
		t.local = mgl64.Translate3D(t.position.X(), t.position.Y(), t.position.Z()).
			Mul4(t.rotation.Mat4()).
			Mul4(mgl64.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
		t.localDirty = false
	}
	return t.local
}

// World returns parent.World() × Local(), or Local() for a root.
func (t *Transform) World() mgl64.Mat4 {
	if t.worldDirty {
		local := t.Local()
		if p := t.parentTransform(); p != nil {
			t.world = p.World().Mul4(local)
		} else {
			t.world = local
		}
		t.worldDirty = false
	}
	return t.world
}

// Inverse returns the inverse of World().
func (t *Transform) Inverse() mgl64.Mat4 {
	world := t.World()
	if t.inverseDirty {
		t.inverse = world.Inv()
		t.inverseDirty = false
	}
	return t.inverse
}

// WorldPosition returns the translation part of World().
func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.World().Col(3).Vec3()
}

// LocalDirty reports whether Local will recompute on its next read.
func (t *Transform) LocalDirty() bool { return t.localDirty }

// WorldDirty reports whether World will recompute on its next read.
func (t *Transform) WorldDirty() bool { return t.worldDirty }

// InverseDirty reports whether Inverse will recompute on its next read.
func (t *Transform) InverseDirty() bool { return t.inverseDirty }

// Parent returns the parent entity, or ecs.Nil for a root.
func (t *Transform) Parent() ecs.Entity { return t.parent }

// Children returns a copy of the child entities in the order they were attached.
func (t *Transform) Children() []ecs.Entity {
	return slices.Clone(t.children)
}

// SetParent moves the transform under parent, or makes it a root when parent
// is ecs.Nil. Both ends of the link are updated, this node and its subtree
// are invalidated and ParentChanged is published.
func (t *Transform) SetParent(parent ecs.Entity) error {
	if t.store == nil {
		return ErrNotAttached
	}
	if parent == t.parent {
		return nil
	}

	var next *Transform
	if parent != ecs.Nil {
		p, ok := t.store.Get(parent)
		if !ok {
			return fmt.Errorf("%w: parent %s", ErrNoTransform, parent)
		}
		for a := p; a != nil; a = a.parentTransform() {
			if a.self == t.self {
				return fmt.Errorf("%w: %s under %s", ErrHierarchyCycle, t.self, parent)
			}
		}
		next = p
	}

	old := t.parent
	if prev := t.parentTransform(); prev != nil {
		prev.removeChild(t.self)
	}
	t.parent = parent
	if next != nil {
		next.children = append(next.children, t.self)
	}

	t.invalidate()
	ecs.Publish(t.owner.Events(), ParentChanged{Child: t.self, Old: old, New: parent})
	return nil
}

// touch marks the local matrix stale and cascades.
func (t *Transform) touch() {
	t.localDirty = true
	t.invalidate()
}

// invalidate marks the world and inverse matrices of t and its subtree dirty.
// A node is only ever world-clean when its ancestors are, so an already
// world-dirty node has a dirty subtree and the walk can stop there.
func (t *Transform) invalidate() {
	t.inverseDirty = true
	if t.worldDirty {
		return
	}
	t.worldDirty = true
	if t.store == nil {
		return
	}
	for _, child := range t.children {
		if ct, ok := t.store.Get(child); ok {
			ct.invalidate()
		}
	}
}

func (t *Transform) parentTransform() *Transform {
	if t.parent == ecs.Nil || t.store == nil {
		return nil
	}
	p, ok := t.store.Get(t.parent)
	if !ok {
		panic(fmt.Sprintf("scene: %s has parent %s without a transform", t.self, t.parent))
	}
	return p
}

func (t *Transform) removeChild(child ecs.Entity) {
	i := slices.Index(t.children, child)
	if i < 0 {
		panic(fmt.Sprintf("scene: %s missing from children of %s", child, t.self))
	}
	t.children = slices.Delete(t.children, i, i+1)
}
