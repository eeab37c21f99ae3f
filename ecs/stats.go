package ecs

import (
	"sort"

	"github.com/google/uuid"
)

// WorldStats is a point-in-time summary of a World, used by the debug UI
// and the stress harness report.
type WorldStats struct {
	ID             uuid.UUID
	EntityCount    int
	IndexCapacity  int
	FreeIndices    int
	StoreCount     int
	StoreBreakdown []StoreStats
	FamilyCount    int
	Families       []FamilyStats
	SingletonCount int
	SingletonTypes []string
}

// StoreStats describes one component store.
type StoreStats struct {
	Kind      KindID
	Name      string
	Count     int
	Capacity  int
	FreeSlots int
}

// FamilyStats describes one family.
type FamilyStats struct {
	Filter  string
	Members int
}

// CollectStats gathers statistics about the World.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		ID:            w.id,
		EntityCount:   w.entities.Len(),
		IndexCapacity: w.entities.Cap(),
		FreeIndices:   w.entities.FreeIndices(),
	}

	for kind, store := range w.stores {
		if store == nil {
			continue
		}
		stats.StoreBreakdown = append(stats.StoreBreakdown, StoreStats{
			Kind:      KindID(kind),
			Name:      store.Type().String(),
			Count:     store.Len(),
			Capacity:  store.Cap(),
			FreeSlots: store.FreeSlots(),
		})
	}
	stats.StoreCount = len(stats.StoreBreakdown)

	for _, f := range w.families {
		stats.Families = append(stats.Families, FamilyStats{
			Filter:  f.filter.Describe(w.registry),
			Members: f.Len(),
		})
	}
	stats.FamilyCount = len(stats.Families)

	for t := range w.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)
	stats.SingletonCount = len(stats.SingletonTypes)

	return stats
}
