package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenegraph/ecs"
)

func NewFilterDebuggerComponent() FilterDebuggerComponent {
	return FilterDebuggerComponent{
		required: make(map[ecs.KindID]bool),
		excluded: make(map[ecs.KindID]bool),
	}
}

// Render lets the user compose a filter from registered kinds and shows
// how many live entities it would match, without creating a Family.
func (fd *FilterDebuggerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Filter Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	registry := w.Registry()

	if imgui.Button("Clear All") {
		fd.required = make(map[ecs.KindID]bool)
		fd.excluded = make(map[ecs.KindID]bool)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("FilterKinds", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Require")
		imgui.TableSetupColumn("Exclude")
		imgui.TableHeadersRow()

		for i := 0; i < registry.Len(); i++ {
			kind := ecs.KindID(i)
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(registry.Name(kind))

			imgui.TableNextColumn()
			req := fd.required[kind]
			if imgui.Checkbox(fmt.Sprintf("##req%d", i), &req) {
				fd.Toggle(kind, req, false)
			}

			imgui.TableNextColumn()
			exc := fd.excluded[kind]
			if imgui.Checkbox(fmt.Sprintf("##exc%d", i), &exc) {
				fd.Toggle(kind, exc, true)
			}
		}
		imgui.EndTable()
	}

	imgui.Separator()

	filter := fd.Filter()
	if filter.Required().IsZero() && filter.Excluded().IsZero() {
		imgui.Text("No component kinds selected")
		imgui.End()
		return
	}

	imgui.Text("Filter: " + filter.Describe(registry))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", countMatches(w, filter)))

	if imgui.TreeNodeStr("Families with this filter") {
		for _, f := range w.Families() {
			if f.Filter() == filter {
				imgui.BulletText(fmt.Sprintf("%s (%d members)", f.Filter().Describe(registry), f.Len()))
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Toggle sets kind's state. A kind cannot be required and excluded at once.
func (fd *FilterDebuggerComponent) Toggle(kind ecs.KindID, on bool, exclude bool) {
	delete(fd.required, kind)
	delete(fd.excluded, kind)
	if !on {
		return
	}
	if exclude {
		fd.excluded[kind] = true
	} else {
		fd.required[kind] = true
	}
}

// Filter returns the filter described by the current selection.
func (fd *FilterDebuggerComponent) Filter() ecs.Filter {
	var filter ecs.Filter
	for kind := range fd.required {
		filter = filter.Require(kind)
	}
	for kind := range fd.excluded {
		filter = filter.Exclude(kind)
	}
	return filter
}

func countMatches(w *ecs.World, filter ecs.Filter) int {
	count := 0
	for e := range w.Entities().All() {
		if bits, ok := w.Entities().Bits(e); ok && filter.Matches(bits) {
			count++
		}
	}
	return count
}
