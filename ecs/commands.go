package ecs

import (
	"errors"
	"fmt"
)

// Commands provides a buffer for deferred structural changes that are
// applied once all systems of a tick have run. Systems iterate Families
// directly, so they queue creation, destruction and component changes here
// instead of applying them mid-iteration.
type Commands struct {
	creates []createCommand
	deletes []Entity
	adds    []componentCommand
	removes []componentCommand
	defers  []func()
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	setup func(w *World, e Entity) error
}

type componentCommand struct {
	entity Entity
	apply  func(w *World) error
}

// Create queues an entity creation. setup, if non-nil, runs right after the
// entity exists and usually adds its components.
func (c *Commands) Create(setup func(w *World, e Entity) error) {
	c.creates = append(c.creates, createCommand{setup: setup})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(e Entity) {
	c.deletes = append(c.deletes, e)
}

// Defer queues a function to run after every other queued command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// AddComponent queues giving e a component holding value.
func AddComponent[T any](c *Commands, e Entity, value T) {
	c.adds = append(c.adds, componentCommand{
		entity: e,
		apply: func(w *World) error {
			_, err := GetStore[T](w).Put(e, value)
			return err
		},
	})
}

// RemoveComponent queues taking e's component of type T away.
func RemoveComponent[T any](c *Commands, e Entity) {
	c.removes = append(c.removes, componentCommand{
		entity: e,
		apply: func(w *World) error {
			return GetStore[T](w).Remove(e)
		},
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the queued commands to w and resets the buffer. Destroys
// run first, then removes, adds, creates and deferred functions. Component
// commands aimed at an entity destroyed by this flush are dropped. Commands
// queued while flushing wait for the next Flush. Every failure is returned,
// joined.
func (c *Commands) Flush(w *World) error {
	creates, deletes, adds, removes, defers := c.creates, c.deletes, c.adds, c.removes, c.defers
	c.creates, c.deletes, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil

	var errs []error
	destroyed := make(map[Entity]struct{}, len(deletes))
	for _, e := range deletes {
		if _, seen := destroyed[e]; seen {
			continue
		}
		destroyed[e] = struct{}{}
		if err := w.Destroy(e); err != nil {
			errs = append(errs, fmt.Errorf("destroy %s: %w", e, err))
		}
	}

	for _, cmd := range removes {
		if _, gone := destroyed[cmd.entity]; gone {
			continue
		}
		if err := cmd.apply(w); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range adds {
		if _, gone := destroyed[cmd.entity]; gone {
			continue
		}
		if err := cmd.apply(w); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range creates {
		e := w.Create()
		if cmd.setup == nil {
			continue
		}
		if err := cmd.setup(w, e); err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", e, err))
		}
	}

	for _, fn := range defers {
		fn()
	}

	err := errors.Join(errs...)
	if err != nil {
		w.logger.Warn("ecs: command flush failed", "failures", len(errs), "err", err)
	}
	return err
}
