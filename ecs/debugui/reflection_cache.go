package debugui

import (
	"reflect"
	"strings"
)

// FieldInfo describes one exported field shown by the inspector.
type FieldInfo struct {
	Name      string
	Label     string
	Type      reflect.Type
	Index     int
	IsPointer bool
	ReadOnly  bool
}

// FieldCache memoises the inspectable fields of component types so the
// inspector does not walk reflect.Type every frame. Fields can be relabelled,
// hidden or made read-only with a `debug` tag:
//
//	Speed float64 `debug:"Speed (m/s)"`
//	cache []byte  // unexported, never shown
//	Seed  uint64  `debug:"-"`
//	ID    string  `debug:",readonly"`
type FieldCache struct {
	fields map[reflect.Type][]FieldInfo
}

func NewFieldCache() *FieldCache {
	return &FieldCache{fields: make(map[reflect.Type][]FieldInfo)}
}

// Fields returns the inspectable fields of t in declaration order. Non-struct
// types have none.
func (fc *FieldCache) Fields(t reflect.Type) []FieldInfo {
	if cached, ok := fc.fields[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			label, readOnly, hidden := parseDebugTag(field)
			if hidden {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Pointer
			if isPointer {
				fieldType = fieldType.Elem()
			}
			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Label:     label,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
				ReadOnly:  readOnly,
			})
		}
	}

	fc.fields[t] = fields
	return fields
}

func parseDebugTag(field reflect.StructField) (label string, readOnly, hidden bool) {
	tag, ok := field.Tag.Lookup("debug")
	if !ok {
		return field.Name, false, false
	}
	if tag == "-" {
		return "", false, true
	}
	label, opts, _ := strings.Cut(tag, ",")
	if label == "" {
		label = field.Name
	}
	return label, opts == "readonly", false
}
