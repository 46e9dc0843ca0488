package repositories

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Option configures a Repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock sets the source of created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the source of record ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// Repository applies the active-flag and timestamp conventions to one table.
// Every read is restricted to active records unless its name says otherwise.
type Repository[T any] struct {
	store Store
	table *Table[T]
	now   func() time.Time
	newID func() string
}

// NewRepository creates a repository for table over store.
func NewRepository[T any](store Store, table *Table[T], opts ...Option) *Repository[T] {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{store: store, table: table, now: o.now, newID: o.newID}
}

// Table returns the table descriptor of the repository.
func (r *Repository[T]) Table() *Table[T] { return r.table }

// FetchOne returns the active record with id, or ErrNotFound.
func (r *Repository[T]) FetchOne(ctx context.Context, id string) (*T, error) {
	return r.fetchByID(ctx, id, true)
}

// FetchOneUnfiltered returns the record with id whether active or not.
func (r *Repository[T]) FetchOneUnfiltered(ctx context.Context, id string) (*T, error) {
	return r.fetchByID(ctx, id, false)
}

func (r *Repository[T]) fetchByID(ctx context.Context, id string, activeOnly bool) (*T, error) {
	filters := []Filter{Eq(ColID, id)}
	if activeOnly {
		filters = append(filters, Eq(ColIsActive, true))
	}
	rows, err := r.store.Select(ctx, Query{Table: r.table.Name, Filters: filters, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := r.table.FromRow(rows[0])
	return &v, nil
}

// FetchMany returns the active records matching every filter. Filters with a nil value
// are skipped. A nil order leaves the store's order. No match yields an empty slice.
func (r *Repository[T]) FetchMany(ctx context.Context, filters []Filter, order *Order) ([]T, error) {
	q := Query{Table: r.table.Name, Filters: []Filter{Eq(ColIsActive, true)}, Order: order}
	for _, f := range filters {
		if isNil(f.Value) {
			continue
		}
		if err := r.table.checkColumns(f.Column); err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, f)
	}
	if order != nil {
		if err := r.table.checkColumns(order.Column); err != nil {
			return nil, err
		}
	}
	rows, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	return r.fromRows(rows), nil
}

// Create stores v under a fresh id, active, with both timestamps set to now.
func (r *Repository[T]) Create(ctx context.Context, v *T) (*T, error) {
	rows, err := r.store.Insert(ctx, r.table.Name, []Row{r.newRow(v)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert into %s returned no row", ErrDatabaseError, r.table.Name)
	}
	out := r.table.FromRow(rows[0])
	return &out, nil
}

// BatchCreate stores all values or none.
func (r *Repository[T]) BatchCreate(ctx context.Context, values []T) ([]T, error) {
	if len(values) == 0 {
		return []T{}, nil
	}
	rows := make([]Row, len(values))
	for i := range values {
		rows[i] = r.newRow(&values[i])
	}
	stored, err := r.store.Insert(ctx, r.table.Name, rows)
	if err != nil {
		return nil, err
	}
	return r.fromRows(stored), nil
}

func (r *Repository[T]) newRow(v *T) Row {
	row := r.table.ToRow(v)
	now := r.now()
	row[ColID] = r.newID()
	row[ColIsActive] = true
	row[ColCreatedAt] = now
	row[ColUpdatedAt] = now
	return row
}

// Update writes the given columns of v onto the active record with id, or every data
// column when none are given, and refreshes updated_at. An id that is missing or
// inactive yields ErrNotFound and nothing is written.
func (r *Repository[T]) Update(ctx context.Context, id string, v *T, columns ...string) (*T, error) {
	if err := r.table.checkColumns(columns...); err != nil {
		return nil, err
	}
	full := r.table.ToRow(v)
	if len(columns) == 0 {
		columns = r.table.Columns
	}
	values := make(Row, len(columns)+1)
	for _, c := range columns {
		if c == ColID || c == ColIsActive || c == ColCreatedAt || c == ColUpdatedAt {
			continue
		}
		values[c] = full[c]
	}
	values[ColUpdatedAt] = r.now()

	rows, err := r.store.Update(ctx, r.table.Name, []Filter{Eq(ColID, id), Eq(ColIsActive, true)}, values)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	out := r.table.FromRow(rows[0])
	return &out, nil
}

// Change is one entry of a BatchUpdate.
type Change[T any] struct {
	ID      string
	Value   T
	Columns []string
}

// BatchUpdate applies changes one after the other and stops at the first failure.
// The records updated before the failure are returned alongside the error.
func (r *Repository[T]) BatchUpdate(ctx context.Context, changes []Change[T]) ([]T, error) {
	out := make([]T, 0, len(changes))
	for i := range changes {
		c := &changes[i]
		v, err := r.Update(ctx, c.ID, &c.Value, c.Columns...)
		if err != nil {
			return out, fmt.Errorf("change %d (%s): %w", i, c.ID, err)
		}
		out = append(out, *v)
	}
	return out, nil
}

// SoftDelete marks the record inactive and refreshes updated_at. Deleting an inactive
// record succeeds again; only an id that never existed yields ErrNotFound.
func (r *Repository[T]) SoftDelete(ctx context.Context, id string) error {
	rows, err := r.store.Update(ctx, r.table.Name, []Filter{Eq(ColID, id)}, Row{
		ColIsActive:  false,
		ColUpdatedAt: r.now(),
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckUnique reports whether no record blocks value in column. Inactive records block
// only when the column's policy forbids reusing values of deleted records.
func (r *Repository[T]) CheckUnique(ctx context.Context, column string, value any) (bool, error) {
	return r.CheckUniqueExcept(ctx, column, value, "")
}

// CheckUniqueExcept is CheckUnique ignoring the record with id, for updates.
func (r *Repository[T]) CheckUniqueExcept(ctx context.Context, column string, value any, id string) (bool, error) {
	if err := r.table.checkColumns(column); err != nil {
		return false, err
	}
	if isNil(value) {
		return true, nil
	}
	filters := []Filter{Eq(column, value)}
	if u, ok := r.table.UniqueField(column); !ok || u.ReuseDeleted {
		filters = append(filters, Eq(ColIsActive, true))
	}
	rows, err := r.store.Select(ctx, Query{Table: r.table.Name, Filters: filters})
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row.String(ColID) != id {
			return false, nil
		}
	}
	return true, nil
}

// CountActive returns the number of active records.
func (r *Repository[T]) CountActive(ctx context.Context) (int, error) {
	return r.Count(ctx, nil)
}

// Count returns the number of active records matching filters. Nil values are skipped.
func (r *Repository[T]) Count(ctx context.Context, filters []Filter) (int, error) {
	fs := []Filter{Eq(ColIsActive, true)}
	for _, f := range filters {
		if isNil(f.Value) {
			continue
		}
		if err := r.table.checkColumns(f.Column); err != nil {
			return 0, err
		}
		fs = append(fs, f)
	}
	return r.store.Count(ctx, r.table.Name, fs)
}

func (r *Repository[T]) fromRows(rows []Row) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = r.table.FromRow(row)
	}
	return out
}

// isNil reports a nil value, including a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
