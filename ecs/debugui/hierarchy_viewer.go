package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

// HierarchyRow is one Transform in depth-first order. Dirty is sampled
// before WorldPosition is read.
type HierarchyRow struct {
	Entity        ecs.Entity
	Depth         int
	WorldPosition mgl64.Vec3
	Dirty         bool
}

func NewHierarchyViewerComponent() HierarchyViewerComponent {
	return HierarchyViewerComponent{}
}

// Render draws the transform forest of w and returns the entity clicked
// this frame, or ecs.Nil.
func (hv *HierarchyViewerComponent) Render(w *ecs.World) ecs.Entity {
	if !imgui.BeginV("Scene Hierarchy", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ecs.Nil
	}

	rows := collectHierarchy(w)
	clicked := ecs.Nil

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("HierarchyTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("World Position")
		imgui.TableSetupColumn("Dirty")
		imgui.TableHeadersRow()

		for _, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			label := strings.Repeat("  ", row.Depth) + row.Entity.String()
			if imgui.SelectableBoolV(label, hv.selected == row.Entity, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				hv.selected = row.Entity
				clicked = row.Entity
			}

			imgui.TableNextColumn()
			p := row.WorldPosition
			imgui.Text(fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X(), p.Y(), p.Z()))

			imgui.TableNextColumn()
			if row.Dirty {
				imgui.Text("yes")
			}
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Nodes: %d", len(rows)))
	imgui.End()
	return clicked
}

// collectHierarchy flattens the forest depth-first. Dirty is sampled before
// WorldPosition is read, since reading it recomputes the cached matrix.
func collectHierarchy(w *ecs.World) []HierarchyRow {
	var rows []HierarchyRow
	for root := range scene.Roots(w) {
		scene.Walk(w, root, func(e ecs.Entity, t *scene.Transform, depth int) bool {
			dirty := t.WorldDirty()
			rows = append(rows, HierarchyRow{
				Entity:        e,
				Depth:         depth,
				Dirty:         dirty,
				WorldPosition: t.WorldPosition(),
			})
			return true
		})
	}
	return rows
}
