package debugui

import (
	"github.com/plus3/scenegraph/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selected           ecs.Entity
	filterText         string
	filterFamily       *ecs.Family
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selected ecs.Entity
	fields   *FieldCache
}

type FamilyViewerComponent struct {
	cache         *FamilyViewerCache
	selected      *ecs.Family
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type FilterDebuggerComponent struct {
	required map[ecs.KindID]bool
	excluded map[ecs.KindID]bool
}

type HierarchyViewerComponent struct {
	selected ecs.Entity
}
