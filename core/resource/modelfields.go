package resource

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// FieldsForModel builds a registry with one field per exported scalar
// attribute of the model struct, named by the attribute's snake_case form
// and carrying the widget matching the attribute kind. Relation and other
// non-scalar attributes are left out; declare those explicitly, since
// only the caller knows their lookup keys.
func FieldsForModel(model any) *FieldRegistry {
	reg := NewFieldRegistry()

	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return reg
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		w, ok := widgetForType(f.Type)
		if !ok {
			continue
		}
		reg.MustAdd(toSnake(f.Name), Field{Widget: w})
	}
	return reg
}

// widgetForType picks the default widget for a scalar attribute type.
func widgetForType(t reflect.Type) (Widget, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case decimalType:
		return DecimalWidget{}, true
	case timeType:
		return DateTimeWidget{}, true
	}
	switch t.Kind() {
	case reflect.String:
		return StringWidget{}, true
	case reflect.Bool:
		return BoolWidget{}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IntWidget{}, true
	default:
		return nil, false
	}
}
