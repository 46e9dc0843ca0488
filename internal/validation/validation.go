// Package validation turns untyped request payloads into typed entity values.
//
// A Schema is an ordered list of fields, each with a type, optionality and a list of
// constraints. Validation never performs I/O and never panics: missing fields, wrong
// types and unknown fields all end up as Issues (or are ignored, for unknown fields).
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MsgRequired is reported for a required field that is missing or null.
const MsgRequired = "Required"

var shapes = validator.New()

type kind int

const (
	kindString kind = iota
	kindNumber
	kindBool
	kindEnum
	kindDate
	kindArray
)

type check struct {
	message string
	ok      func(v any) bool
}

// Field describes one input field. Build fields with String, Number, Bool, Enum, Date and Array.
type Field struct {
	name        string
	kind        kind
	optional    bool
	parseNumber bool
	hasDefault  bool
	def         any
	enum        []string
	checks      []check
	elem        []*Field
	minItems    int
	minItemsMsg string
}

// String declares a required string field. Values are trimmed before any check runs.
func String(name string) *Field { return &Field{name: name, kind: kindString} }

// Number declares a required numeric field. Accepted values are decoded into decimal.Decimal.
func Number(name string) *Field { return &Field{name: name, kind: kindNumber} }

// Bool declares a required boolean field.
func Bool(name string) *Field { return &Field{name: name, kind: kindBool} }

// Enum declares a required field restricted to the given literals.
func Enum(name string, values ...string) *Field {
	return &Field{name: name, kind: kindEnum, enum: values}
}

// Date declares a required date field. RFC 3339 timestamps and YYYY-MM-DD strings are accepted.
func Date(name string) *Field { return &Field{name: name, kind: kindDate} }

// Array declares a required list of objects, each validated against elem.
func Array(name string, elem ...*Field) *Field {
	return &Field{name: name, kind: kindArray, elem: elem}
}

// Name returns the input key of the field.
func (f *Field) Name() string { return f.name }

// Optional marks the field as optional. An empty string counts as absent.
func (f *Field) Optional() *Field {
	f.optional = true
	return f
}

// Default marks the field optional and supplies the value used when it is absent.
func (f *Field) Default(v any) *Field {
	f.optional = true
	f.hasDefault = true
	f.def = v
	return f
}

// ParseNumber lets a numeric field accept numeric strings such as "1500.50".
func (f *Field) ParseNumber() *Field {
	f.parseNumber = true
	return f
}

// Min requires at least n characters.
func (f *Field) Min(n int, message string) *Field {
	return f.add(message, func(v any) bool { return utf8.RuneCountInString(v.(string)) >= n })
}

// Max allows at most n characters.
func (f *Field) Max(n int, message string) *Field {
	return f.add(message, func(v any) bool { return utf8.RuneCountInString(v.(string)) <= n })
}

// Regex requires the string to match re.
func (f *Field) Regex(re *regexp.Regexp, message string) *Field {
	return f.add(message, func(v any) bool { return re.MatchString(v.(string)) })
}

// Email requires an email address shape.
func (f *Field) Email(message string) *Field {
	return f.add(message, func(v any) bool { return shapes.Var(v.(string), "email") == nil })
}

// UUID requires a UUID shape.
func (f *Field) UUID(message string) *Field {
	return f.add(message, func(v any) bool { return shapes.Var(v.(string), "uuid") == nil })
}

// Positive requires a value greater than zero.
func (f *Field) Positive(message string) *Field {
	return f.add(message, func(v any) bool { return v.(decimal.Decimal).IsPositive() })
}

// NonNegative requires a value greater than or equal to zero.
func (f *Field) NonNegative(message string) *Field {
	return f.add(message, func(v any) bool { return !v.(decimal.Decimal).IsNegative() })
}

// MaxValue requires a value less than or equal to n.
func (f *Field) MaxValue(n int64, message string) *Field {
	limit := decimal.NewFromInt(n)
	return f.add(message, func(v any) bool { return v.(decimal.Decimal).LessThanOrEqual(limit) })
}

// NonZero rejects zero.
func (f *Field) NonZero(message string) *Field {
	return f.add(message, func(v any) bool { return !v.(decimal.Decimal).IsZero() })
}

// Int requires a whole number.
func (f *Field) Int(message string) *Field {
	return f.add(message, func(v any) bool { return v.(decimal.Decimal).IsInteger() })
}

// MinItems requires at least n elements in an array field.
func (f *Field) MinItems(n int, message string) *Field {
	f.minItems = n
	f.minItemsMsg = message
	return f
}

func (f *Field) add(message string, ok func(v any) bool) *Field {
	f.checks = append(f.checks, check{message: message, ok: ok})
	return f
}

// Issue is one failed constraint, addressed by a dotted field path such as "items.0.quantity".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors maps a field path to its messages, in the order they were detected.
type FieldErrors map[string][]string

// Error is returned when input does not satisfy a schema.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields groups the issues by path.
func (e *Error) Fields() FieldErrors {
	return FormatErrors(e)
}

// Paths returns the distinct failing paths in detection order.
func (e *Error) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, is := range e.Issues {
		if !seen[is.Path] {
			seen[is.Path] = true
			paths = append(paths, is.Path)
		}
	}
	return paths
}

func (e *Error) addIssue(path, message string) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: message})
}

// FormatErrors groups issues by field path into path -> messages.
func FormatErrors(err *Error) FieldErrors {
	out := make(FieldErrors)
	if err == nil {
		return out
	}
	for _, is := range err.Issues {
		out[is.Path] = append(out[is.Path], is.Message)
	}
	return out
}

// validateFields walks fields in declaration order, storing coerced values into out and
// returning the names of fields present in the input. In partial mode a missing field is
// skipped, but a required field sent as null is still rejected, and defaults are only
// applied to optional fields that were sent empty.
func validateFields(fields []*Field, input map[string]any, prefix string, partial bool, out Values, errs *Error) []string {
	var present []string
	for _, f := range fields {
		path := prefix + f.name
		raw, sent := input[f.name]

		absent := !sent || raw == nil
		if s, ok := raw.(string); ok && f.optional && strings.TrimSpace(s) == "" {
			absent = true
		}

		if absent {
			switch {
			case partial && sent && !f.optional:
				errs.addIssue(path, MsgRequired)
			case partial && sent:
				present = append(present, f.name)
				if f.hasDefault {
					out[f.name] = f.def
				}
			case partial:
			case f.hasDefault:
				out[f.name] = f.def
			case !f.optional:
				errs.addIssue(path, MsgRequired)
			}
			continue
		}

		present = append(present, f.name)
		v, ok := f.coerce(raw, path, errs)
		if !ok {
			continue
		}
		passed := true
		for _, c := range f.checks {
			if !c.ok(v) {
				errs.addIssue(path, c.message)
				passed = false
			}
		}
		if passed {
			out[f.name] = v
		}
	}
	return present
}

func (f *Field) coerce(raw any, path string, errs *Error) (any, bool) {
	switch f.kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			errs.addIssue(path, fmt.Sprintf("Expected string, received %s", typeName(raw)))
			return nil, false
		}
		return strings.TrimSpace(s), true

	case kindNumber:
		d, ok := toDecimal(raw, f.parseNumber)
		if !ok {
			errs.addIssue(path, fmt.Sprintf("Expected number, received %s", typeName(raw)))
			return nil, false
		}
		return d, true

	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			errs.addIssue(path, fmt.Sprintf("Expected boolean, received %s", typeName(raw)))
			return nil, false
		}
		return b, true

	case kindEnum:
		s, ok := raw.(string)
		if ok {
			s = strings.TrimSpace(s)
			for _, allowed := range f.enum {
				if s == allowed {
					return s, true
				}
			}
		}
		errs.addIssue(path, fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", quoteJoin(f.enum), raw))
		return nil, false

	case kindDate:
		switch t := raw.(type) {
		case time.Time:
			return t, true
		case string:
			s := strings.TrimSpace(t)
			if parsed, err := time.Parse(time.RFC3339, s); err == nil {
				return parsed, true
			}
			if parsed, err := time.Parse("2006-01-02", s); err == nil {
				return parsed, true
			}
			errs.addIssue(path, "Invalid date")
			return nil, false
		default:
			errs.addIssue(path, fmt.Sprintf("Expected date, received %s", typeName(raw)))
			return nil, false
		}

	case kindArray:
		list, ok := raw.([]any)
		if !ok {
			errs.addIssue(path, fmt.Sprintf("Expected array, received %s", typeName(raw)))
			return nil, false
		}
		if len(list) < f.minItems {
			errs.addIssue(path, f.minItemsMsg)
		}
		before := len(errs.Issues)
		elems := make([]Values, 0, len(list))
		for i, el := range list {
			elemPath := fmt.Sprintf("%s.%d", path, i)
			obj, ok := el.(map[string]any)
			if !ok {
				errs.addIssue(elemPath, fmt.Sprintf("Expected object, received %s", typeName(el)))
				continue
			}
			vals := make(Values)
			validateFields(f.elem, obj, elemPath+".", false, vals, errs)
			elems = append(elems, vals)
		}
		if len(errs.Issues) > before || len(list) < f.minItems {
			return nil, false
		}
		return elems, true
	}
	errs.addIssue(path, "Unsupported field type")
	return nil, false
}

func toDecimal(raw any, parseStrings bool) (decimal.Decimal, bool) {
	switch n := raw.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return toDecimal(float64(n), parseStrings)
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case string:
		if !parseStrings {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Zero, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number, decimal.Decimal:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, " | ")
}
