package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// UniqueIndex declares a single-column unique constraint. ActiveOnly makes it
// partial on is_active, like a `WHERE is_active` index.
type UniqueIndex struct {
	Name       string
	Column     string
	ActiveOnly bool
}

// Reference declares a foreign key from Column to the id of Table.
type Reference struct {
	Name   string
	Column string
	Table  string
}

// TableDef is the constraint set of one table.
type TableDef struct {
	Name       string
	Unique     []UniqueIndex
	References []Reference
}

type memTable struct {
	def  TableDef
	rows []Row
}

// MemoryStore keeps tables in process memory and enforces the same unique and
// foreign key constraints as the PostgreSQL schema. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*memTable
}

// NewMemoryStore creates an empty store holding the given tables.
func NewMemoryStore(defs ...TableDef) *MemoryStore {
	s := &MemoryStore{tables: make(map[string]*memTable, len(defs))}
	for _, d := range defs {
		s.tables[d.Name] = &memTable{def: d}
	}
	return s
}

func (s *MemoryStore) table(name string) (*memTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: relation %q does not exist", ErrDatabaseError, name)
	}
	return t, nil
}

// Select returns copies of the matching rows.
func (s *MemoryStore) Select(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(q.Table)
	if err != nil {
		return nil, err
	}
	out := []Row{}
	for _, r := range t.rows {
		if matches(r, q.Filters) {
			out = append(out, r.clone())
		}
	}
	if q.Order != nil {
		col, asc := q.Order.Column, q.Order.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i][col], out[j][col], asc)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Insert stores every row or none.
func (s *MemoryStore) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	pending := make([]Row, 0, len(rows))
	for _, r := range rows {
		r = r.clone()
		if r["id"] == nil {
			return nil, fmt.Errorf("%w: null value in column \"id\" of relation %q", ErrDatabaseError, table)
		}
		others := append(append([]Row{}, t.rows...), pending...)
		if err := s.checkRow(t, r, others); err != nil {
			return nil, err
		}
		pending = append(pending, r)
	}
	t.rows = append(t.rows, pending...)

	out := make([]Row, len(pending))
	for i, r := range pending {
		out[i] = r.clone()
	}
	return out, nil
}

// Update applies values to the matching rows. Either all of them change or none.
func (s *MemoryStore) Update(ctx context.Context, table string, filters []Filter, values Row) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	var idx []int
	next := make([]Row, len(t.rows))
	for i, r := range t.rows {
		next[i] = r
		if !matches(r, filters) {
			continue
		}
		updated := r.clone()
		for k, v := range values {
			updated[k] = v
		}
		next[i] = updated
		idx = append(idx, i)
	}
	for _, i := range idx {
		others := make([]Row, 0, len(next)-1)
		others = append(others, next[:i]...)
		others = append(others, next[i+1:]...)
		if err := s.checkRow(t, next[i], others); err != nil {
			return nil, err
		}
	}
	t.rows = next

	out := make([]Row, 0, len(idx))
	for _, i := range idx {
		out = append(out, next[i].clone())
	}
	return out, nil
}

// Count returns the number of matching rows.
func (s *MemoryStore) Count(ctx context.Context, table string, filters []Filter) (int, error) {
	rows, err := s.Select(ctx, Query{Table: table, Filters: filters})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// checkRow validates r against the table constraints given the other rows of the table.
// Callers hold the write lock.
func (s *MemoryStore) checkRow(t *memTable, r Row, others []Row) error {
	for _, o := range others {
		if equal(o["id"], r["id"]) {
			return &ConstraintError{Kind: ConstraintUnique, Table: t.def.Name, Column: "id", Constraint: t.def.Name + "_pkey"}
		}
	}
	for _, u := range t.def.Unique {
		v := r[u.Column]
		if v == nil || (u.ActiveOnly && !isActive(r)) {
			continue
		}
		for _, o := range others {
			if u.ActiveOnly && !isActive(o) {
				continue
			}
			if equal(o[u.Column], v) {
				return &ConstraintError{
					Kind:       ConstraintUnique,
					Table:      t.def.Name,
					Column:     u.Column,
					Constraint: u.Name,
					Detail:     fmt.Sprintf("Key (%s)=(%v) already exists.", u.Column, v),
				}
			}
		}
	}
	for _, ref := range t.def.References {
		v := r[ref.Column]
		if v == nil {
			continue
		}
		target, ok := s.tables[ref.Table]
		found := false
		if ok {
			for _, o := range target.rows {
				if equal(o["id"], v) {
					found = true
					break
				}
			}
		}
		if !found {
			return &ConstraintError{
				Kind:       ConstraintForeignKey,
				Table:      t.def.Name,
				Column:     ref.Column,
				Constraint: ref.Name,
				Detail:     fmt.Sprintf("Key (%s)=(%v) is not present in table %q.", ref.Column, v, ref.Table),
			}
		}
	}
	return nil
}

func isActive(r Row) bool {
	b, _ := r["is_active"].(bool)
	return b
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		v := r[f.Column]
		if f.Value == nil {
			if v != nil {
				return false
			}
			continue
		}
		if v == nil || !equal(v, f.Value) {
			return false
		}
	}
	return true
}

// equal compares two column values. A string on either side is coerced to the
// type of the other, the way PostgreSQL casts untyped parameters.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, ok := b.(string); ok {
		if _, ok := a.(string); !ok {
			a, b = b, a
		}
	}
	if s, ok := a.(string); ok {
		switch bv := b.(type) {
		case string:
			return s == bv
		case bool:
			p, err := strconv.ParseBool(strings.TrimSpace(s))
			return err == nil && p == bv
		case time.Time:
			p, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
			return err == nil && p.Equal(bv)
		}
		if d, ok := asDecimal(b); ok {
			p, err := decimal.NewFromString(strings.TrimSpace(s))
			return err == nil && p.Equal(d)
		}
		return false
	}
	if da, ok := asDecimal(a); ok {
		db, ok := asDecimal(b)
		return ok && da.Equal(db)
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}

// less orders a before b. NULLs sort last ascending and first descending.
func less(a, b any, asc bool) bool {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return false
		}
		if asc {
			return b == nil
		}
		return a == nil
	}
	c := compare(a, b)
	if asc {
		return c < 0
	}
	return c > 0
}

func compare(a, b any) int {
	if da, ok := asDecimal(a); ok {
		if db, ok := asDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
