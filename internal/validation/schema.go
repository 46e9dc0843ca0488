package validation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownSchema is returned by ValidateByName for a name nothing was registered under.
var ErrUnknownSchema = errors.New("unknown validation schema")

// Schema is an ordered set of fields plus a builder producing the typed value.
type Schema[T any] struct {
	name   string
	fields []*Field
	build  func(Values) T
}

// NewSchema declares a schema. Fields are checked, and their errors reported, in the given order.
func NewSchema[T any](name string, build func(Values) T, fields ...*Field) *Schema[T] {
	return &Schema[T]{name: name, fields: fields, build: build}
}

// Name returns the registry name of the schema.
func (s *Schema[T]) Name() string { return s.name }

// Fields returns the input keys in declaration order.
func (s *Schema[T]) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Validate checks input against the schema. On success the typed value is returned and
// the error is nil; otherwise the zero value and the collected issues are returned.
func Validate[T any](s *Schema[T], input map[string]any) (T, *Error) {
	var zero T
	errs := &Error{}
	vals := make(Values)
	validateFields(s.fields, input, "", false, vals, errs)
	if len(errs.Issues) > 0 {
		return zero, errs
	}
	return s.build(vals), nil
}

// ValidatePartial checks only the fields present in input, none being required. It also
// returns the names of the fields that were sent, in declaration order, so callers can
// write exactly those columns.
func ValidatePartial[T any](s *Schema[T], input map[string]any) (T, []string, *Error) {
	var zero T
	errs := &Error{}
	vals := make(Values)
	present := validateFields(s.fields, input, "", true, vals, errs)
	if len(errs.Issues) > 0 {
		return zero, nil, errs
	}
	return s.build(vals), present, nil
}

// Values holds coerced field values keyed by input name. Absent optional fields have no key.
type Values map[string]any

// Has reports whether the field carries a value.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns the trimmed string value, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// OptString returns nil for an absent field.
func (v Values) OptString(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}
	return &s
}

// Decimal returns the numeric value, or zero when absent.
func (v Values) Decimal(name string) decimal.Decimal {
	switch d := v[name].(type) {
	case decimal.Decimal:
		return d
	case int:
		return decimal.NewFromInt(int64(d))
	case float64:
		return decimal.NewFromFloat(d)
	}
	return decimal.Zero
}

// OptDecimal returns nil for an absent field.
func (v Values) OptDecimal(name string) *decimal.Decimal {
	if !v.Has(name) {
		return nil
	}
	d := v.Decimal(name)
	return &d
}

// OptInt returns the integer part of a numeric field, or nil when absent.
func (v Values) OptInt(name string) *int {
	if !v.Has(name) {
		return nil
	}
	n := int(v.Decimal(name).IntPart())
	return &n
}

// Bool returns the boolean value, or false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Time returns the date value, or the zero time when absent.
func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

// OptTime returns nil for an absent field.
func (v Values) OptTime(name string) *time.Time {
	t, ok := v[name].(time.Time)
	if !ok {
		return nil
	}
	return &t
}

// List returns the validated elements of an array field.
func (v Values) List(name string) []Values {
	l, _ := v[name].([]Values)
	return l
}

// Func validates an untyped payload and returns the typed value boxed in an interface.
type Func func(input map[string]any) (any, *Error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Func)
)

// Register makes a schema reachable through ValidateByName. Registering a name twice panics.
func Register[T any](s *Schema[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.name]; dup {
		panic(fmt.Sprintf("validation: schema %q registered twice", s.name))
	}
	registry[s.name] = func(input map[string]any) (any, *Error) {
		v, err := Validate(s, input)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// ValidateByName validates input against a registered schema.
func ValidateByName(name string, input map[string]any) (any, *Error, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	v, verr := fn(input)
	return v, verr, nil
}

// SchemaNames lists registered schema names, sorted.
func SchemaNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
