package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenegraph/ecs"
)

// EntityInfo is one row of the entity browser table.
type EntityInfo struct {
	ID             ecs.Entity
	ComponentTypes []string
	ComponentCount int
}

// EntityBrowserCache holds the browser's rows. Structural events on the
// World mark it dirty so rows are only rebuilt after something changed.
type EntityBrowserCache struct {
	entities      []EntityInfo
	dirty         bool
	sortColumn    int
	sortAscending bool
	subscriptions []ecs.Subscription
}

func NewEntityBrowserComponent(w *ecs.World, maxEntitiesPerPage int) EntityBrowserComponent {
	cache := &EntityBrowserCache{
		dirty:         true,
		sortColumn:    0,
		sortAscending: true,
	}
	bus := w.Events()
	markDirty := func() { cache.dirty = true }
	cache.subscriptions = append(cache.subscriptions,
		ecs.Subscribe(bus, func(ecs.EntityCreated) { markDirty() }),
		ecs.Subscribe(bus, func(ecs.EntityDestroyed) { markDirty() }),
		ecs.Subscribe(bus, func(ecs.ComponentAdded) { markDirty() }),
		ecs.Subscribe(bus, func(ecs.ComponentRemoved) { markDirty() }),
	)
	return EntityBrowserComponent{
		cache:              cache,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// Render draws the entity table and updates the selection.
func (eb *EntityBrowserComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterFamily = nil
	}
	if eb.filterFamily != nil {
		imgui.Text("Family: " + eb.filterFamily.Filter().Describe(w.Registry()))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Generation")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.filteredEntities()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selected == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID.Index()), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ID.Generation()))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.filteredEntities()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(w *ecs.World) {
	if !eb.cache.dirty && eb.cache.entities != nil {
		return
	}
	eb.cache.entities = collectEntities(w)
	eb.cache.dirty = false
	eb.sortEntities()
}

func collectEntities(w *ecs.World) []EntityInfo {
	entities := make([]EntityInfo, 0, w.Entities().Len())
	for e := range w.Entities().All() {
		bits, _ := w.Entities().Bits(e)
		names := w.Registry().Names(bits)
		entities = append(entities, EntityInfo{
			ID:             e,
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}
	return entities
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.ID.Generation() < b.ID.Generation()
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.ID.Index() < b.ID.Index()
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	if eb.filterText == "" && eb.filterFamily == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterFamily != nil && !eb.filterFamily.Contains(entity.ID) {
			continue
		}

		if eb.filterText != "" {
			idStr := entity.ID.String()
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

// Selected returns the entity picked in the table, or ecs.Nil.
func (eb *EntityBrowserComponent) Selected() ecs.Entity {
	return eb.selected
}

// Select makes e the browser's selection, e.g. when picked in another panel.
func (eb *EntityBrowserComponent) Select(e ecs.Entity) {
	eb.selected = e
}

// FilterFamily limits the table to members of f. A nil family clears it.
func (eb *EntityBrowserComponent) FilterFamily(f *ecs.Family) {
	eb.filterFamily = f
	eb.currentPage = 0
}

// Close stops tracking structural changes on w.
func (eb *EntityBrowserComponent) Close(w *ecs.World) {
	for _, sub := range eb.cache.subscriptions {
		w.Events().Unsubscribe(sub)
	}
	eb.cache.subscriptions = nil
}
