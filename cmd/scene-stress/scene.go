package main

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

// Spin rotates a node about its local Y axis.
type Spin struct {
	RadiansPerSecond float64
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	scene.Register(registry)
	ecs.RegisterComponent[Spin](registry)
	return registry
}

// spawnNode creates an entity with a Transform, a Model and a Spin, parented
// under parent when parent is not ecs.Nil.
func spawnNode(w *ecs.World, rng *rand.Rand, parent ecs.Entity) (ecs.Entity, error) {
	e := w.Create()
	offset := mgl64.Vec3{rng.Float64()*4 - 2, rng.Float64()*4 - 2, rng.Float64()*4 - 2}
	t, err := ecs.Put(w, e, scene.NewTransformAt(offset))
	if err != nil {
		return e, err
	}
	if _, err := ecs.Put(w, e, scene.NewModel("cube")); err != nil {
		return e, err
	}
	if _, err := ecs.Put(w, e, Spin{RadiansPerSecond: rng.Float64() * math.Pi}); err != nil {
		return e, err
	}
	if parent != ecs.Nil {
		return e, t.SetParent(parent)
	}
	return e, nil
}

type queued struct {
	entity ecs.Entity
	depth  int
}

// buildForest creates cfg.Entities nodes as breadth-first trees of at most
// cfg.Depth levels with cfg.FanOut children per node. It returns the roots.
func buildForest(w *ecs.World, cfg Config, rng *rand.Rand) ([]ecs.Entity, error) {
	var roots []ecs.Entity
	created := 0
	for created < cfg.Entities {
		root, err := spawnNode(w, rng, ecs.Nil)
		if err != nil {
			return roots, err
		}
		roots = append(roots, root)
		created++

		queue := []queued{{root, 0}}
		for len(queue) > 0 && created < cfg.Entities {
			next := queue[0]
			queue = queue[1:]
			if next.depth+1 >= cfg.Depth {
				continue
			}
			for i := 0; i < cfg.FanOut && created < cfg.Entities; i++ {
				child, err := spawnNode(w, rng, next.entity)
				if err != nil {
					return roots, err
				}
				created++
				queue = append(queue, queued{child, next.depth + 1})
			}
		}
	}
	return roots, nil
}

func spawnCamera(w *ecs.World) (ecs.Entity, error) {
	e := w.Create()
	if _, err := ecs.Put(w, e, scene.NewTransformAt(mgl64.Vec3{0, 0, 50})); err != nil {
		return e, err
	}
	_, err := ecs.Put(w, e, scene.NewCamera())
	return e, err
}

// maxDepth returns the depth of the deepest node below any root.
func maxDepth(w *ecs.World) int {
	deepest := -1
	for root := range scene.Roots(w) {
		scene.Walk(w, root, func(e ecs.Entity, t *scene.Transform, depth int) bool {
			deepest = max(deepest, depth)
			return true
		})
	}
	return deepest
}
