package repositories

import (
	"fmt"
	"slices"

	"hardware_shop_backend/internal/models"
)

// Columns every master table shares.
const (
	ColID        = "id"
	ColIsActive  = "is_active"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

var baseColumns = []string{ColID, ColIsActive, ColCreatedAt, ColUpdatedAt}

// UniqueField is a column whose value must be unique among records.
// With ReuseDeleted set, soft-deleted records do not block a value.
type UniqueField struct {
	Column       string
	ReuseDeleted bool
}

// Table describes how a record type maps onto a table.
type Table[T any] struct {
	Name string
	// Columns are the writable data columns, excluding id, is_active and the timestamps.
	Columns []string
	Unique  []UniqueField
	// References are the foreign keys of the table, keyed by column.
	References []Reference
	ToRow      func(*T) Row
	FromRow    func(Row) T
}

// HasColumn reports whether col is a data or base column of the table.
func (t *Table[T]) HasColumn(col string) bool {
	return slices.Contains(t.Columns, col) || slices.Contains(baseColumns, col)
}

// UniqueField returns the uniqueness policy of col.
func (t *Table[T]) UniqueField(col string) (UniqueField, bool) {
	for _, u := range t.Unique {
		if u.Column == col {
			return u, true
		}
	}
	return UniqueField{}, false
}

// Def returns the constraint set of the table for a MemoryStore. Unique fields that
// allow reuse after deletion become partial indexes on is_active.
func (t *Table[T]) Def() TableDef {
	def := TableDef{Name: t.Name, References: t.References}
	for _, u := range t.Unique {
		def.Unique = append(def.Unique, UniqueIndex{
			Name:       fmt.Sprintf("%s_%s_key", t.Name, u.Column),
			Column:     u.Column,
			ActiveOnly: u.ReuseDeleted,
		})
	}
	return def
}

func (t *Table[T]) checkColumns(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, c)
		}
	}
	return nil
}

// WithReuseDeleted returns a copy of the table whose unique fields all use the given policy.
func (t *Table[T]) WithReuseDeleted(reuse bool) *Table[T] {
	cp := *t
	cp.Unique = make([]UniqueField, len(t.Unique))
	for i, u := range t.Unique {
		u.ReuseDeleted = reuse
		cp.Unique[i] = u
	}
	return &cp
}

func readBase(r Row) models.Base {
	return models.Base{
		ID:        r.String(ColID),
		IsActive:  r.Bool(ColIsActive),
		CreatedAt: r.Time(ColCreatedAt),
		UpdatedAt: r.Time(ColUpdatedAt),
	}
}

func optBalanceType(p *models.BalanceType) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func readBalanceType(r Row, col string) *models.BalanceType {
	s := r.OptString(col)
	if s == nil {
		return nil
	}
	bt := models.BalanceType(*s)
	return &bt
}
