package resource

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Widget converts one attribute between its raw cell representation and
// its native value. Implementations are stateless; relation widgets carry
// a lookup capability supplied by the store at construction time.
type Widget interface {
	// Clean parses a raw cell value into the native value for the
	// attribute kind. An empty cell yields nil for optional kinds.
	// Failures are marked ErrConversion.
	Clean(ctx context.Context, raw string) (any, error)

	// Render formats a native value back into its raw cell
	// representation. It is total over valid native values; nil renders
	// as the empty string.
	Render(value any) string
}

// RelatedLookup resolves a key to one related object, or nil when no
// object matches.
type RelatedLookup func(ctx context.Context, key string) (any, error)

// StringWidget passes string cells through unchanged.
type StringWidget struct{}

func (StringWidget) Clean(_ context.Context, raw string) (any, error) { return raw, nil }

func (StringWidget) Render(value any) string { return renderScalar(value) }

// IntWidget converts integer cells. Empty cells clean to nil.
type IntWidget struct{}

func (IntWidget) Clean(_ context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, conversionErrorf("%q is not a valid integer", raw)
	}
	return n, nil
}

func (IntWidget) Render(value any) string { return renderScalar(value) }

// DecimalWidget converts decimal cells with exact decimal semantics.
type DecimalWidget struct{}

func (DecimalWidget) Clean(_ context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, conversionErrorf("%q is not a valid decimal", raw)
	}
	return d, nil
}

func (DecimalWidget) Render(value any) string {
	if value == nil {
		return ""
	}
	if d, ok := value.(decimal.Decimal); ok {
		return d.String()
	}
	return renderScalar(value)
}

// BoolWidget converts boolean cells, accepting the usual spellings.
type BoolWidget struct{}

func (BoolWidget) Clean(_ context.Context, raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	default:
		return nil, conversionErrorf("%q is not a valid boolean", raw)
	}
}

func (BoolWidget) Render(value any) string {
	if value == nil {
		return ""
	}
	if b, ok := value.(bool); ok {
		if b {
			return "1"
		}
		return "0"
	}
	return renderScalar(value)
}

// DateWidget converts date cells using a configurable layout.
type DateWidget struct {
	// Format is the time layout; defaults to 2006-01-02.
	Format string
}

func (w DateWidget) layout() string {
	if w.Format != "" {
		return w.Format
	}
	return "2006-01-02"
}

func (w DateWidget) Clean(_ context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(w.layout(), raw)
	if err != nil {
		return nil, conversionErrorf("%q is not a valid date (layout %s)", raw, w.layout())
	}
	return t, nil
}

func (w DateWidget) Render(value any) string { return renderTime(value, w.layout()) }

// DateTimeWidget converts timestamp cells using a configurable layout.
type DateTimeWidget struct {
	// Format is the time layout; defaults to 2006-01-02 15:04:05.
	Format string
}

func (w DateTimeWidget) layout() string {
	if w.Format != "" {
		return w.Format
	}
	return "2006-01-02 15:04:05"
}

func (w DateTimeWidget) Clean(_ context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(w.layout(), raw)
	if err != nil {
		return nil, conversionErrorf("%q is not a valid timestamp (layout %s)", raw, w.layout())
	}
	return t, nil
}

func (w DateTimeWidget) Render(value any) string { return renderTime(value, w.layout()) }

// ForeignKeyWidget resolves a key cell to a single related object through
// the store. A missing match cleans to nil unless the relation is
// required.
type ForeignKeyWidget struct {
	// KeyAttribute is the attribute on the related object used as the
	// lookup key and the rendered representation.
	KeyAttribute string

	// Lookup resolves a key to the related object, nil when absent.
	Lookup RelatedLookup

	// Required turns an unresolved key into a conversion error instead
	// of a nil value.
	Required bool
}

func (w ForeignKeyWidget) Clean(ctx context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	obj, err := w.Lookup(ctx, raw)
	if err != nil {
		return nil, wrapConversion(err, "resolving related object")
	}
	if obj == nil && w.Required {
		return nil, conversionErrorf("no related object with %s=%q", w.KeyAttribute, raw)
	}
	return obj, nil
}

func (w ForeignKeyWidget) Render(value any) string {
	if value == nil {
		return ""
	}
	key, err := getAttr(value, w.KeyAttribute)
	if err != nil || key == nil {
		return ""
	}
	return renderScalar(key)
}

// ManyToManyWidget resolves a separator-joined key cell to a set of
// related objects. It only computes the target set; persisting the
// relation is a dedicated engine phase because the owning object must
// already have a saved identity.
type ManyToManyWidget struct {
	// KeyAttribute is the attribute on related objects used for lookup
	// and rendering.
	KeyAttribute string

	// Separator splits the cell into keys; defaults to ",".
	Separator string

	// Lookup resolves one key to one related object, nil when absent.
	Lookup RelatedLookup
}

func (w ManyToManyWidget) separator() string {
	if w.Separator != "" {
		return w.Separator
	}
	return ","
}

func (w ManyToManyWidget) Clean(ctx context.Context, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []any{}, nil
	}
	var members []any
	for _, key := range strings.Split(raw, w.separator()) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		obj, err := w.Lookup(ctx, key)
		if err != nil {
			return nil, wrapConversion(err, "resolving related object")
		}
		if obj == nil {
			return nil, conversionErrorf("no related object with %s=%q", w.KeyAttribute, key)
		}
		members = append(members, obj)
	}
	if members == nil {
		members = []any{}
	}
	return members, nil
}

// Render formats a member collection as its sorted, separator-joined key
// set, so two equal sets always render identically regardless of member
// order.
func (w ManyToManyWidget) Render(value any) string {
	if value == nil {
		return ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return renderScalar(value)
	}
	keys := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		member := rv.Index(i).Interface()
		key, err := getAttr(member, w.KeyAttribute)
		if err != nil || key == nil {
			continue
		}
		keys = append(keys, renderScalar(key))
	}
	sort.Strings(keys)
	return strings.Join(keys, w.separator())
}

func renderScalar(value any) string {
	if value == nil {
		return ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return renderScalar(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", value)
}

func renderTime(value any, layout string) string {
	if value == nil {
		return ""
	}
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(layout)
	default:
		return renderScalar(value)
	}
}
