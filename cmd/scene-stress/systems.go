package main

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

// SpinSystem rotates every spinning node, dirtying its subtree.
type SpinSystem struct {
	Nodes ecs.Query[struct {
		*scene.Transform
		*Spin
	}]
}

func (s *SpinSystem) Update(frame *ecs.UpdateFrame) {
	for item := range s.Nodes.Values() {
		angle := item.Spin.RadiansPerSecond * frame.DeltaTime
		item.Transform.Rotate(mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0}))
	}
}

// ChurnSystem destroys Count random nodes per tick and queues as many
// replacements under random surviving nodes, so the hierarchy keeps
// reshaping while the node count stays steady.
type ChurnSystem struct {
	Nodes ecs.Query[struct {
		Entity ecs.Entity
		*scene.Transform
		*Spin
	}]
	Count int
	rng   *rand.Rand

	Destroyed int
	Created   int
}

func (s *ChurnSystem) Update(frame *ecs.UpdateFrame) {
	nodes := s.Nodes.Entities()
	if len(nodes) == 0 || s.Count == 0 {
		return
	}

	victims := make(map[ecs.Entity]struct{}, s.Count)
	for i := 0; i < s.Count; i++ {
		victim := nodes[s.rng.IntN(len(nodes))]
		victims[victim] = struct{}{}
		frame.Commands.Destroy(victim)

		parent := nodes[s.rng.IntN(len(nodes))]
		frame.Commands.Create(func(w *ecs.World, e ecs.Entity) error {
			s.Created++
			t, err := ecs.Put(w, e, scene.NewTransformAt(mgl64.Vec3{1, 0, 0}))
			if err != nil {
				return err
			}
			if _, err := ecs.Put(w, e, Spin{RadiansPerSecond: s.rng.Float64()}); err != nil {
				return err
			}
			if _, err := ecs.Put(w, e, scene.NewModel("cube")); err != nil {
				return err
			}
			if !w.Alive(parent) {
				return nil
			}
			return t.SetParent(parent)
		})
	}
	s.Destroyed += len(victims)
}
