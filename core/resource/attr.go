package resource

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// Attribute paths name struct fields in snake_case, with dots spanning
// relationships ("author.name" reads Book.Author.Name). Resolution is by
// case-normalized name, so "id" matches a Go field named ID.

// getAttr reads the value at a dotted attribute path. A nil pointer
// anywhere along the path yields nil rather than an error, mirroring an
// unset relation.
func getAttr(instance any, path string) (any, error) {
	v := reflect.ValueOf(instance)
	for _, segment := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, errors.Newf("attribute %q: %s is not a struct", path, v.Kind())
		}
		field, ok := fieldByAttr(v, segment)
		if !ok {
			return nil, errors.Newf("attribute %q: no field %q on %s", path, segment, v.Type())
		}
		v = field
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

// setAttr writes a value at a dotted attribute path, allocating nil
// pointers along the way. Numeric widths are converted; a nil value zeroes
// the field.
func setAttr(instance any, path string, value any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.Newf("attribute %q: instance must be a non-nil pointer", path)
	}

	segments := strings.Split(path, ".")
	v = v.Elem()
	for _, segment := range segments[:len(segments)-1] {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return errors.Newf("attribute %q: cannot allocate %s", path, v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return errors.Newf("attribute %q: %s is not a struct", path, v.Kind())
		}
		field, ok := fieldByAttr(v, segment)
		if !ok {
			return errors.Newf("attribute %q: no field %q on %s", path, segment, v.Type())
		}
		v = field
	}

	last := segments[len(segments)-1]
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.Newf("attribute %q: %s is not a struct", path, v.Kind())
	}
	field, ok := fieldByAttr(v, last)
	if !ok {
		return errors.Newf("attribute %q: no field %q on %s", path, last, v.Type())
	}
	if !field.CanSet() {
		return errors.Newf("attribute %q: field %q is not settable", path, last)
	}
	return assignValue(field, value, path)
}

// assignValue stores a cleaned native value into a struct field, bridging
// pointer-ness and numeric widths.
func assignValue(field reflect.Value, value any, path string) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	rv := reflect.ValueOf(value)
	ft := field.Type()

	switch {
	case rv.Type().AssignableTo(ft):
		field.Set(rv)
	case isNumericConversion(rv.Type(), ft):
		field.Set(rv.Convert(ft))
	case ft.Kind() == reflect.Pointer && rv.Type().AssignableTo(ft.Elem()):
		p := reflect.New(ft.Elem())
		p.Elem().Set(rv)
		field.Set(p)
	case ft.Kind() == reflect.Pointer && isNumericConversion(rv.Type(), ft.Elem()):
		p := reflect.New(ft.Elem())
		p.Elem().Set(rv.Convert(ft.Elem()))
		field.Set(p)
	case rv.Kind() == reflect.Pointer && rv.Type().Elem().AssignableTo(ft):
		if rv.IsNil() {
			field.Set(reflect.Zero(ft))
		} else {
			field.Set(rv.Elem())
		}
	default:
		return errors.Newf("attribute %q: cannot assign %s to %s", path, rv.Type(), ft)
	}
	return nil
}

// isNumericConversion restricts reflect conversions to numeric widths so
// that surprising conversions (int to string yields a rune) never happen.
func isNumericConversion(from, to reflect.Type) bool {
	return isNumericKind(from.Kind()) && isNumericKind(to.Kind()) && from.ConvertibleTo(to)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// fieldByAttr finds the struct field whose snake_case name matches the
// attribute segment.
func fieldByAttr(v reflect.Value, segment string) (reflect.Value, bool) {
	t := v.Type()
	want := toSnake(segment)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if toSnake(f.Name) == want {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// toSnake converts a Go identifier to snake_case, keeping initialisms
// intact (ID -> id, AuthorID -> author_id).
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// goName converts a snake_case attribute segment to the exported Go
// identifier gorm uses for association names (categories -> Categories,
// author_id -> AuthorID is not needed for associations but produced
// consistently).
func goName(attr string) string {
	parts := strings.Split(attr, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if p == "id" {
			b.WriteString("ID")
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
