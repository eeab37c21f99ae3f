package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyPresent is returned when adding a component an entity already has.
	ErrAlreadyPresent = errors.New("ecs: component already present")
	// ErrNotPresent is returned when removing a component the entity does not have.
	ErrNotPresent = errors.New("ecs: component not present")
	// ErrAlreadyDestroyed is returned when destroying an entity twice.
	ErrAlreadyDestroyed = errors.New("ecs: entity already destroyed")
	// ErrUnknownKind is returned for component types the registry has never seen.
	ErrUnknownKind = errors.New("ecs: unknown component kind")
	// ErrStaleEntity is returned when a handle's generation no longer matches its index.
	ErrStaleEntity = errors.New("ecs: stale entity handle")
	// ErrRecursivePublish is raised when event handlers keep re-publishing the same event kind.
	ErrRecursivePublish = errors.New("ecs: recursive publish depth exceeded")
	// ErrConcurrentModification is raised when a Family changes while it is being ranged over.
	ErrConcurrentModification = errors.New("ecs: family modified during iteration")
	// ErrInvalidSystem is returned when registering a system that is not a non-nil pointer.
	ErrInvalidSystem = errors.New("ecs: system must be a non-nil pointer")
)

// invariant panics when an internal consistency check fails. These are
// programming errors, never expected conditions.
func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("ecs: invariant violated: "+format, args...))
	}
}
