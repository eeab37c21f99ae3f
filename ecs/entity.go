package ecs

import "strconv"

// Entity encodes a generation (upper 32 bits) and a registry index (lower 32 bits).
// Generations start at 1, so the zero value never names a live entity.
type Entity uint64

// Nil is the zero Entity. It is never alive.
const Nil Entity = 0

// NewEntity creates an Entity from an index and a generation.
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the registry index from the entity.
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation from the entity.
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// String formats the entity as index:generation.
func (e Entity) String() string {
	if e == Nil {
		return "nil"
	}
	return strconv.FormatUint(uint64(e.Index()), 10) + ":" + strconv.FormatUint(uint64(e.Generation()), 10)
}
