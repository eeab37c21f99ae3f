package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/scene"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{fields: NewFieldCache()}
}

func (ci *ComponentInspectorComponent) Render(w *ecs.World, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selected = selected

	if ci.selected == ecs.Nil {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	bits, ok := w.Entities().Bits(ci.selected)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %s is no longer alive", ci.selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", ci.selected))
	imgui.Text(fmt.Sprintf("Components: %d", bits.Count()))
	imgui.Separator()

	for kind := range bits.Kinds() {
		component, ok := w.Component(ci.selected, kind)
		if !ok {
			continue
		}

		if imgui.TreeNodeStr(w.Registry().Name(kind)) {
			ci.renderComponent(component)
			if imgui.Button(fmt.Sprintf("Remove##%d", kind)) {
				if err := w.Remove(ci.selected, kind); err != nil {
					w.Logger().Warn("debugui: remove component failed", "entity", ci.selected, "error", err)
				}
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent draws editors for the value behind component, which is
// always a pointer into a store, so edits land in place.
func (ci *ComponentInspectorComponent) renderComponent(component any) {
	if t, ok := component.(*scene.Transform); ok {
		ci.renderTransform(t)
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		ci.renderField(val, FieldInfo{Name: "value", Label: "value", Type: val.Type()})
		return
	}

	fields := ci.fields.Fields(val.Type())
	if len(fields) == 0 {
		imgui.Text("(no exported fields)")
		return
	}
	ci.renderFields(val, fields)
}

func (ci *ComponentInspectorComponent) renderFields(val reflect.Value, fields []FieldInfo) {
	for _, field := range fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(fieldVal, field)
	}
}

// renderTransform edits a Transform through its setters so the dirty flags
// cascade. The flags are shown before the world position is read.
func (ci *ComponentInspectorComponent) renderTransform(t *scene.Transform) {
	imgui.Text(fmt.Sprintf("Dirty: local=%t world=%t inverse=%t", t.LocalDirty(), t.WorldDirty(), t.InverseDirty()))

	pos := toFloat3(t.Position())
	if imgui.InputFloat3("Position", &pos) {
		t.SetPosition(fromFloat3(pos))
	}
	scale := toFloat3(t.Scale())
	if imgui.InputFloat3("Scale", &scale) {
		t.SetScale(fromFloat3(scale))
	}
	r := t.Rotation()
	imgui.Text(fmt.Sprintf("Rotation: w=%.3f v=(%.3f, %.3f, %.3f)", r.W, r.V.X(), r.V.Y(), r.V.Z()))

	wp := t.WorldPosition()
	imgui.Text(fmt.Sprintf("World: (%.2f, %.2f, %.2f)", wp.X(), wp.Y(), wp.Z()))
	imgui.Text(fmt.Sprintf("Parent: %s  Children: %d", t.Parent(), len(t.Children())))
}

func toFloat3(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func fromFloat3(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (ci *ComponentInspectorComponent) renderField(val reflect.Value, field FieldInfo) {
	name := field.Label
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Pointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	if field.ReadOnly && val.Kind() != reflect.Struct {
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		}
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setInt(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			setUint(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			setFloat(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			setBool(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			setString(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderFields(val, ci.fields.Fields(val.Type()))
			imgui.TreePop()
		}

	case reflect.Array:
		// Vector types such as mgl64.Vec3 are fixed-size arrays.
		if k := val.Type().Elem().Kind(); k == reflect.Float64 || k == reflect.Float32 {
			for i := 0; i < val.Len(); i++ {
				label := fmt.Sprintf("%s[%d]", name, i)
				ci.renderField(val.Index(i), FieldInfo{Name: label, Label: label, Type: val.Type().Elem(), ReadOnly: field.ReadOnly})
			}
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}

func setInt(field reflect.Value, value int64) bool {
	if !field.CanSet() || field.OverflowInt(value) {
		return false
	}
	field.SetInt(value)
	return true
}

func setUint(field reflect.Value, value uint64) bool {
	if !field.CanSet() || field.OverflowUint(value) {
		return false
	}
	field.SetUint(value)
	return true
}

func setFloat(field reflect.Value, value float64) bool {
	if !field.CanSet() {
		return false
	}
	field.SetFloat(value)
	return true
}

func setBool(field reflect.Value, value bool) bool {
	if !field.CanSet() {
		return false
	}
	field.SetBool(value)
	return true
}

func setString(field reflect.Value, value string) bool {
	if !field.CanSet() {
		return false
	}
	field.SetString(value)
	return true
}
