package extjson

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/hupe1980/extjson/document"
)

// field describes one encodable struct field, flattened through embedded
// structs.
type field struct {
	name      string
	index     []int
	depth     int
	omitEmpty bool
	// override adjusts the active strategies for this field's subtree.
	override func(*Strategies)
}

type structInfo struct {
	fields []field
	byName map[string]int
}

// structCache maps reflect.Type to *structInfo or error.
var structCache sync.Map

func cachedStruct(t reflect.Type) (*structInfo, error) {
	if v, ok := structCache.Load(t); ok {
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		return v.(*structInfo), nil
	}

	info, err := buildStruct(t)
	if err != nil {
		structCache.Store(t, err)
		return nil, err
	}
	v, _ := structCache.LoadOrStore(t, info)
	if err, isErr := v.(error); isErr {
		return nil, err
	}
	return v.(*structInfo), nil
}

func buildStruct(t reflect.Type) (*structInfo, error) {
	var fields []field
	if err := collectFields(t, nil, 0, &fields, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}

	// The shallowest field wins a name conflict; ties keep the first.
	info := &structInfo{byName: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := info.byName[f.name]; ok {
			if f.depth < info.fields[i].depth {
				info.fields[i] = f
			}
			continue
		}
		info.byName[f.name] = len(info.fields)
		info.fields = append(info.fields, f)
	}
	return info, nil
}

func collectFields(t reflect.Type, prefix []int, depth int, out *[]field, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		tag := sf.Tag.Get("extjson")
		if tag == "" {
			tag = sf.Tag.Get("json")
		}
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		// Exported fields of unexported embedded structs are promoted.
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			if err := collectFields(sf.Type, index, depth+1, out, seen); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		f := field{name: name, index: index, depth: depth}
		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			switch {
			case opt == "omitempty":
				f.omitEmpty = true
			case strings.HasPrefix(opt, "format:"):
				fn, err := formatOverride(strings.TrimPrefix(opt, "format:"))
				if err != nil {
					return fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
				}
				f.override = chainOverride(f.override, fn)
			case opt == "":
			default:
				return fmt.Errorf("field %s.%s: unknown tag option %q", t.Name(), sf.Name, opt)
			}
		}
		*out = append(*out, f)
	}
	return nil
}

func chainOverride(a, b func(*Strategies)) func(*Strategies) {
	if a == nil {
		return b
	}
	return func(s *Strategies) {
		a(s)
		b(s)
	}
}

// formatOverride resolves the value of a `format:` tag option.
//
//	extended  every wrapper form
//	plain     the Plain preset
//	iso8601   DateISO8601
//	millis    DateMillisecondsSinceEpoch
//	seconds   DateSecondsSinceEpoch
//	layout=L  DateFormatted(L)
//	hex       ObjectIDHexString
//	base64    BinaryBase64 and DataBase64
//	number    Int64Number
//	null      KeyedNilNull
//	omitted   KeyedNilOmitted
//
// The extended and plain presets keep the surrounding KeyedNil choice.
func formatOverride(name string) (func(*Strategies), error) {
	if layout, ok := strings.CutPrefix(name, "layout="); ok {
		if layout == "" {
			return nil, fmt.Errorf("empty date layout")
		}
		return func(s *Strategies) { s.Date = DateFormatted(layout) }, nil
	}
	switch name {
	case "extended":
		return func(s *Strategies) {
			keep := s.KeyedNil
			*s = ExtendedJSON()
			s.KeyedNil = keep
		}, nil
	case "plain":
		return func(s *Strategies) {
			keep := s.KeyedNil
			*s = Plain()
			s.KeyedNil = keep
		}, nil
	case "iso8601":
		return func(s *Strategies) { s.Date = DateISO8601() }, nil
	case "millis":
		return func(s *Strategies) { s.Date = DateMillisecondsSinceEpoch() }, nil
	case "seconds":
		return func(s *Strategies) { s.Date = DateSecondsSinceEpoch() }, nil
	case "hex":
		return func(s *Strategies) { s.ObjectID = ObjectIDHexString }, nil
	case "base64":
		return func(s *Strategies) {
			s.Binary = BinaryBase64()
			s.Data = DataBase64()
		}, nil
	case "number":
		return func(s *Strategies) { s.Int64 = Int64Number }, nil
	case "null":
		return func(s *Strategies) { s.KeyedNil = KeyedNilNull }, nil
	case "omitted":
		return func(s *Strategies) { s.KeyedNil = KeyedNilOmitted }, nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

// isEmptyValue reports whether v is skipped by omitempty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

// isAbsent reports whether v is a nil pointer or interface or an absent
// document.Value, the Go representations of an absent optional.
func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	if v.Type() == valueType {
		return v.Interface().(document.Value).IsAbsent()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
