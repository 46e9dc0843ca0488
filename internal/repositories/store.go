package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one stored record keyed by column name.
type Row map[string]any

// Filter is an equality condition. A nil Value matches NULL.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter { return Filter{Column: column, Value: value} }

// Order sorts a select by one column.
type Order struct {
	Column    string
	Ascending bool
}

// Query is a table-scoped select.
type Query struct {
	Table   string
	Filters []Filter
	Order   *Order
	Limit   int
}

// Store is the table-scoped capability the repositories are written against.
// Implementations report constraint rejections as *ConstraintError and any
// other failure wrapped in ErrDatabaseError.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	// Insert writes all rows or none and returns them as stored.
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	// Update applies values to every row matching filters and returns the updated rows.
	Update(ctx context.Context, table string, filters []Filter, values Row) ([]Row, error)
	Count(ctx context.Context, table string, filters []Filter) (int, error)
	Ping(ctx context.Context) error
}

// String returns the column as a string, or "" when NULL.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// OptString returns nil when the column is NULL.
func (r Row) OptString(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

// Decimal returns the column as a decimal, or zero when NULL or unparsable.
func (r Row) Decimal(col string) decimal.Decimal {
	switch v := r[col].(type) {
	case decimal.Decimal:
		return v
	case string:
		d, _ := decimal.NewFromString(v)
		return d
	case []byte:
		d, _ := decimal.NewFromString(string(v))
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

// OptInt returns nil when the column is NULL.
func (r Row) OptInt(col string) *int {
	var n int
	switch v := r[col].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case int32:
		n = int(v)
	case float64:
		n = int(v)
	case decimal.Decimal:
		n = int(v.IntPart())
	default:
		return nil
	}
	return &n
}

// Bool returns the column as a bool, false when NULL.
func (r Row) Bool(col string) bool {
	b, _ := r[col].(bool)
	return b
}

// Time returns the column as a time, the zero time when NULL.
func (r Row) Time(col string) time.Time {
	t, _ := r[col].(time.Time)
	return t
}

// clone copies the row map. Column values are treated as immutable.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// nullable turns a nil pointer into an untyped nil so stores see NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
