package debugui

import (
	"fmt"
	"slices"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenegraph/ecs"
)

// FamilyInfo is one row of the family viewer table.
type FamilyInfo struct {
	Family      *ecs.Family
	Filter      string
	KindCount   int
	MemberCount int
}

// FamilyViewerCache holds the sorted rows between frames.
type FamilyViewerCache struct {
	families      []FamilyInfo
	sortColumn    int
	sortAscending bool
}

func NewFamilyViewerComponent() FamilyViewerComponent {
	return FamilyViewerComponent{
		cache: &FamilyViewerCache{
			sortColumn:    2,
			sortAscending: false,
		},
		sortColumn:    2,
		sortAscending: false,
	}
}

// Render draws every live family of w and returns the family clicked this
// frame, if any.
func (fv *FamilyViewerComponent) Render(w *ecs.World) *ecs.Family {
	if !imgui.BeginV("Family Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	fv.rebuildCache(w)

	maxMembers := 0
	for _, info := range fv.cache.families {
		maxMembers = max(maxMembers, info.MemberCount)
	}

	var clicked *ecs.Family

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("FamilyTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Filter")
		imgui.TableSetupColumn("Kinds")
		imgui.TableSetupColumn("Members")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			fv.cache.sortColumn = int(spec.ColumnIndex())
			fv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			fv.sortColumn = fv.cache.sortColumn
			fv.sortAscending = fv.cache.sortAscending
			fv.sortFamilies()
			sortSpecs.SetSpecsDirty(false)
		}

		for i, info := range fv.cache.families {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := fv.selected == info.Family
			if imgui.SelectableBoolV(fmt.Sprintf("%s##%d", info.Filter, i), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				fv.selected = info.Family
				clicked = info.Family
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.KindCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.MemberCount))

			if maxMembers > 0 {
				barWidth := float32(info.MemberCount) / float32(maxMembers) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

// rebuildCache runs every frame; family membership is already maintained
// incrementally so collecting it is a walk over w.Families().
func (fv *FamilyViewerComponent) rebuildCache(w *ecs.World) {
	fv.cache.families = collectFamilies(w)
	fv.sortFamilies()

	if fv.selected != nil && !slices.Contains(w.Families(), fv.selected) {
		fv.selected = nil
	}
}

func collectFamilies(w *ecs.World) []FamilyInfo {
	families := make([]FamilyInfo, 0, len(w.Families()))
	for _, f := range w.Families() {
		filter := f.Filter()
		families = append(families, FamilyInfo{
			Family:      f,
			Filter:      filter.Describe(w.Registry()),
			KindCount:   filter.Required().Count() + filter.AnyOf().Count() + filter.Excluded().Count(),
			MemberCount: f.Len(),
		})
	}
	return families
}

func (fv *FamilyViewerComponent) sortFamilies() {
	sort.SliceStable(fv.cache.families, func(i, j int) bool {
		a, b := fv.cache.families[i], fv.cache.families[j]
		var less bool

		switch fv.cache.sortColumn {
		case 0:
			less = a.Filter < b.Filter
		case 1:
			less = a.KindCount < b.KindCount
		default:
			less = a.MemberCount < b.MemberCount
		}

		if !fv.cache.sortAscending {
			return !less
		}
		return less
	})
}

// Selected returns the family picked in the table, or nil.
func (fv *FamilyViewerComponent) Selected() *ecs.Family {
	return fv.selected
}
