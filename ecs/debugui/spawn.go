package debugui

import "github.com/plus3/scenegraph/ecs"

// Panels is the set of built-in inspector windows. Selections made in one
// panel drive the others.
type Panels struct {
	Browser     EntityBrowserComponent
	Inspector   ComponentInspectorComponent
	Families    FamilyViewerComponent
	Performance PerformanceStatsComponent
	Filters     FilterDebuggerComponent
	Hierarchy   HierarchyViewerComponent

	world     *ecs.World
	scheduler *ecs.Scheduler
	timer     *FrameTimer
	entity    ecs.Entity
}

// SpawnDebugUI creates an ImguiItem entity that renders every panel each
// frame. scheduler may be nil, in which case system timings are hidden.
func SpawnDebugUI(w *ecs.World, scheduler *ecs.Scheduler) (*Panels, error) {
	p := &Panels{
		Browser:     NewEntityBrowserComponent(w, 100),
		Inspector:   NewComponentInspectorComponent(),
		Families:    NewFamilyViewerComponent(),
		Performance: NewPerformanceStatsComponent(120),
		Filters:     NewFilterDebuggerComponent(),
		Hierarchy:   NewHierarchyViewerComponent(),
		world:       w,
		scheduler:   scheduler,
		timer:       NewFrameTimer(),
	}

	p.entity = w.Create()
	if _, err := ecs.Put(w, p.entity, ImguiItem{Render: p.Render}); err != nil {
		_ = w.Destroy(p.entity)
		return nil, err
	}
	return p, nil
}

// Render draws all panels once.
func (p *Panels) Render() {
	p.Browser.Render(p.world)
	p.Inspector.Render(p.world, p.Browser.Selected())

	if f := p.Families.Render(p.world); f != nil {
		p.Browser.FilterFamily(f)
	}
	p.Filters.Render(p.world)
	if e := p.Hierarchy.Render(p.world); e != ecs.Nil {
		p.Browser.Select(e)
	}
	p.Performance.Render(p.world, p.scheduler, p.timer.GetDeltaTime())
}

// Close destroys the panel entity and drops event subscriptions.
func (p *Panels) Close() error {
	p.Browser.Close(p.world)
	return p.world.Destroy(p.entity)
}

// RegisterDebugUIComponents registers the components this package attaches
// to entities.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}
