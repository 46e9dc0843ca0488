package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"hardware_shop_backend/internal/metrics"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/internal/validation"
)

// UniqueRule ties a unique column to the message shown when a write collides with it.
type UniqueRule[T any] struct {
	Column  string
	Message string
	// Value extracts the column value from a record; nil means the record does not claim one.
	Value func(*T) any
}

// ReferenceCheck verifies references of v before a write. columns lists the columns
// being written, nil meaning all of them.
type ReferenceCheck[T any] func(ctx context.Context, v *T, columns []string) error

// Entity describes one master-data entity to the generic service.
type Entity[T any] struct {
	// Label names the entity in messages, e.g. "Customer".
	Label      string
	Schema     *validation.Schema[T]
	Unique     []UniqueRule[T]
	Filterable []string
	// FilterParsers convert query values of typed filterable columns. Other columns are
	// compared as given.
	FilterParsers map[string]FilterParser
	// DefaultOrder applies when a list request gives no order_by.
	DefaultOrder repositories.Order
	References   ReferenceCheck[T]
	// ReferenceMessages maps a referencing column to the message of a failed reference.
	ReferenceMessages map[string]string
}

// FilterParser converts a raw query value into the value compared against a column.
type FilterParser func(raw string) (any, error)

// ListOptions holds the query parameters of a list request.
type ListOptions struct {
	Filters   map[string]string
	OrderBy   string
	Ascending *bool
}

// BatchUpdateInput is one entry of UpdateBatch.
type BatchUpdateInput struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// MasterService implements list, read, write and soft delete of one entity on top of a
// Repository, with schema validation and uniqueness rules applied before any write.
type MasterService[T any] struct {
	entity  Entity[T]
	repo    *repositories.Repository[T]
	metrics *metrics.Metrics
}

// NewMasterService creates a service for entity stored through repo. m may be nil.
func NewMasterService[T any](repo *repositories.Repository[T], entity Entity[T], m *metrics.Metrics) *MasterService[T] {
	return &MasterService[T]{entity: entity, repo: repo, metrics: m}
}

// Label returns the display name of the entity.
func (s *MasterService[T]) Label() string { return s.entity.Label }

// List returns the active records matching opts, by default ordered as the entity declares.
func (s *MasterService[T]) List(ctx context.Context, opts ListOptions) (out []T, err error) {
	defer s.record("list", &err)

	filters, err := s.filters(opts.Filters)
	if err != nil {
		return nil, err
	}
	order := s.entity.DefaultOrder
	if opts.OrderBy != "" {
		if !s.repo.Table().HasColumn(opts.OrderBy) {
			return nil, fmt.Errorf("%w: cannot order by %q", ErrInvalidQuery, opts.OrderBy)
		}
		order = repositories.Order{Column: opts.OrderBy, Ascending: true}
	}
	if opts.Ascending != nil {
		order.Ascending = *opts.Ascending
	}
	return s.repo.FetchMany(ctx, filters, &order)
}

// Count returns the number of active records matching filters.
func (s *MasterService[T]) Count(ctx context.Context, filters map[string]string) (n int, err error) {
	defer s.record("count", &err)

	fs, err := s.filters(filters)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, fs)
}

// filters keeps the filterable columns of raw; other keys are ignored. A value its
// column's parser rejects is an ErrInvalidQuery.
func (s *MasterService[T]) filters(raw map[string]string) ([]repositories.Filter, error) {
	var out []repositories.Filter
	for _, col := range s.entity.Filterable {
		v, ok := raw[col]
		if !ok || v == "" {
			continue
		}
		parse, typed := s.entity.FilterParsers[col]
		if !typed {
			out = append(out, repositories.Eq(col, v))
			continue
		}
		parsed, err := parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid value for %s: %q", ErrInvalidQuery, col, v)
		}
		out = append(out, repositories.Eq(col, parsed))
	}
	return out, nil
}

// Get returns the active record with id.
func (s *MasterService[T]) Get(ctx context.Context, id string) (v *T, err error) {
	defer s.record("get", &err)
	return s.fetch(ctx, id)
}

func (s *MasterService[T]) fetch(ctx context.Context, id string) (*T, error) {
	v, err := s.repo.FetchOne(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Entity: s.entity.Label}
	}
	return v, err
}

// Create validates input, applies the schema defaults and stores a new active record.
func (s *MasterService[T]) Create(ctx context.Context, input map[string]any) (v *T, err error) {
	defer s.record("create", &err)

	value, verr := validation.Validate(s.entity.Schema, input)
	if verr != nil {
		return nil, verr
	}
	if err := s.checkWrite(ctx, &value, "", nil); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &value)
	if err != nil {
		return nil, s.translate(err)
	}
	return created, nil
}

// Replace validates input as a complete record and overwrites every field of the record with id.
func (s *MasterService[T]) Replace(ctx context.Context, id string, input map[string]any) (v *T, err error) {
	defer s.record("replace", &err)

	value, verr := validation.Validate(s.entity.Schema, input)
	if verr != nil {
		return nil, verr
	}
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, &value, id, nil); err != nil {
		return nil, err
	}
	return s.update(ctx, id, &value)
}

// Patch validates and writes only the fields present in input.
func (s *MasterService[T]) Patch(ctx context.Context, id string, input map[string]any) (v *T, err error) {
	defer s.record("patch", &err)

	value, columns, verr := validation.ValidatePartial(s.entity.Schema, input)
	if verr != nil {
		return nil, verr
	}
	if len(columns) == 0 {
		return nil, ErrNoChanges
	}
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, &value, id, columns); err != nil {
		return nil, err
	}
	return s.update(ctx, id, &value, columns...)
}

func (s *MasterService[T]) update(ctx context.Context, id string, value *T, columns ...string) (*T, error) {
	updated, err := s.repo.Update(ctx, id, value, columns...)
	if errors.Is(err, repositories.ErrNotFound) {
		// deleted between the existence check and the write
		return nil, &NotFoundError{Entity: s.entity.Label}
	}
	if err != nil {
		return nil, s.translate(err)
	}
	return updated, nil
}

// Delete soft-deletes the active record with id. A record that is already inactive is
// reported as not found.
func (s *MasterService[T]) Delete(ctx context.Context, id string) (err error) {
	defer s.record("delete", &err)

	if _, err := s.fetch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Entity: s.entity.Label}
		}
		return err
	}
	return nil
}

// CreateBatch validates every input and stores all of them or none. Validation issues of
// all entries are reported together, prefixed with the entry index.
func (s *MasterService[T]) CreateBatch(ctx context.Context, inputs []map[string]any) (out []T, err error) {
	defer s.record("create_batch", &err)

	values := make([]T, len(inputs))
	all := &validation.Error{}
	for i, in := range inputs {
		v, verr := validation.Validate(s.entity.Schema, in)
		if verr != nil {
			appendIssues(all, i, verr)
			continue
		}
		values[i] = v
	}
	if len(all.Issues) > 0 {
		return nil, all
	}

	claimed := make(map[string]map[any]bool)
	for i := range values {
		if err := s.checkWrite(ctx, &values[i], "", nil); err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
		for _, rule := range s.entity.Unique {
			val := rule.Value(&values[i])
			if val == nil {
				continue
			}
			if claimed[rule.Column] == nil {
				claimed[rule.Column] = make(map[any]bool)
			}
			if claimed[rule.Column][val] {
				return nil, &BatchError{Index: i, Err: conflict(rule.Column, rule.Message, nil)}
			}
			claimed[rule.Column][val] = true
		}
	}

	created, err := s.repo.BatchCreate(ctx, values)
	if err != nil {
		return nil, s.translate(err)
	}
	return created, nil
}

// UpdateBatch validates every entry as a partial update, then applies them in order. It
// stops at the first entry that fails and returns the records updated before it.
func (s *MasterService[T]) UpdateBatch(ctx context.Context, inputs []BatchUpdateInput) (out []T, err error) {
	defer s.record("update_batch", &err)

	changes := make([]repositories.Change[T], len(inputs))
	all := &validation.Error{}
	for i, in := range inputs {
		v, columns, verr := validation.ValidatePartial(s.entity.Schema, in.Data)
		if verr != nil {
			appendIssues(all, i, verr)
			continue
		}
		if len(columns) == 0 {
			return nil, &BatchError{Index: i, Err: ErrNoChanges}
		}
		changes[i] = repositories.Change[T]{ID: in.ID, Value: v, Columns: columns}
	}
	if len(all.Issues) > 0 {
		return nil, all
	}

	out = make([]T, 0, len(changes))
	for i := range changes {
		c := &changes[i]
		if _, err := s.fetch(ctx, c.ID); err != nil {
			return out, &BatchError{Index: i, Err: err}
		}
		if err := s.checkWrite(ctx, &c.Value, c.ID, c.Columns); err != nil {
			return out, &BatchError{Index: i, Err: err}
		}
		updated, err := s.repo.BatchUpdate(ctx, changes[i:i+1])
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				err = &NotFoundError{Entity: s.entity.Label}
			}
			return out, &BatchError{Index: i, Err: s.translate(err)}
		}
		out = append(out, updated...)
	}
	return out, nil
}

// checkWrite runs the uniqueness pre-checks and reference checks for a write of columns
// (all when nil) onto the record with id ("" for a new record).
func (s *MasterService[T]) checkWrite(ctx context.Context, v *T, id string, columns []string) error {
	for _, rule := range s.entity.Unique {
		if columns != nil && !slices.Contains(columns, rule.Column) {
			continue
		}
		val := rule.Value(v)
		if val == nil {
			continue
		}
		ok, err := s.repo.CheckUniqueExcept(ctx, rule.Column, val, id)
		if err != nil {
			return err
		}
		if !ok {
			return conflict(rule.Column, rule.Message, nil)
		}
	}
	if s.entity.References != nil {
		return s.entity.References(ctx, v, columns)
	}
	return nil
}

// translate turns store constraint violations into conflicts carrying the entity's messages.
// The store is the final authority on uniqueness, so this also covers races the pre-check missed.
func (s *MasterService[T]) translate(err error) error {
	var ce *repositories.ConstraintError
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Kind {
	case repositories.ConstraintUnique:
		for _, rule := range s.entity.Unique {
			if rule.Column == ce.Column {
				return conflict(rule.Column, rule.Message, err)
			}
		}
		return conflict(ce.Column, fmt.Sprintf("%s %s already exists", s.entity.Label, ce.Column), err)
	case repositories.ConstraintForeignKey:
		if msg, ok := s.entity.ReferenceMessages[ce.Column]; ok {
			return conflict(ce.Column, msg, err)
		}
		return conflict(ce.Column, "Referenced record does not exist", err)
	}
	return err
}

func (s *MasterService[T]) record(op string, err *error) {
	s.metrics.RecordOperation(s.entity.Label, op, outcome(*err))
}

func outcome(err error) string {
	var verr *validation.Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrNoChanges):
		return "invalid"
	default:
		return "error"
	}
}

func appendIssues(dst *validation.Error, index int, src *validation.Error) {
	prefix := strconv.Itoa(index)
	for _, is := range src.Issues {
		path := prefix
		if is.Path != "" {
			path += "." + is.Path
		}
		dst.Issues = append(dst.Issues, validation.Issue{Path: path, Message: is.Message})
	}
}
