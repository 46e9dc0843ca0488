package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq" // For pq.Error

	"hardware_shop_backend/internal/metrics"
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx so statements can run inside a transaction
// or directly on the pool.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresStore implements Store on PostgreSQL through lib/pq.
type PostgresStore struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgresStore creates a store over an open connection pool. m may be nil.
func NewPostgresStore(db *sql.DB, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: m}
}

// Select runs a filtered, ordered select of every column.
func (s *PostgresStore) Select(ctx context.Context, q Query) ([]Row, error) {
	defer s.metrics.TrackStoreOperation("select", q.Table)(time.Now())

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pq.QuoteIdentifier(q.Table))
	where, args := whereClause(q.Filters, 1)
	b.WriteString(where)
	if q.Order != nil {
		dir := "DESC"
		if q.Order.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", pq.QuoteIdentifier(q.Order.Column), dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	rows, err := scanRows(s.db.QueryContext(ctx, b.String(), args...))
	if err != nil {
		return nil, s.mapError("select", q.Table, err)
	}
	return rows, nil
}

// Insert writes all rows in one transaction and returns them as stored.
func (s *PostgresStore) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	defer s.metrics.TrackStoreOperation("insert", table)(time.Now())
	if len(rows) == 0 {
		return []Row{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.mapError("insert", table, err)
	}
	defer tx.Rollback() // Rollback is a no-op if the tx has been committed

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		inserted, err := insertRow(ctx, tx, table, r)
		if err != nil {
			return nil, s.mapError("insert", table, err)
		}
		out = append(out, inserted...)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.mapError("insert", table, err)
	}
	return out, nil
}

func insertRow(ctx context.Context, exec SQLExecutor, table string, r Row) ([]Row, error) {
	cols := sortedColumns(r)
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = r[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return scanRows(exec.QueryContext(ctx, query, args...))
}

// Update sets values on every row matching filters in a single statement.
func (s *PostgresStore) Update(ctx context.Context, table string, filters []Filter, values Row) ([]Row, error) {
	defer s.metrics.TrackStoreOperation("update", table)(time.Now())
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: update of %s without values", ErrDatabaseError, table)
	}

	cols := sortedColumns(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filters))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c), i+1)
		args = append(args, values[c])
	}
	where, whereArgs := whereClause(filters, len(cols)+1)
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING *",
		pq.QuoteIdentifier(table), strings.Join(sets, ", "), where)

	rows, err := scanRows(s.db.QueryContext(ctx, query, args...))
	if err != nil {
		return nil, s.mapError("update", table, err)
	}
	return rows, nil
}

// Count counts the rows matching filters.
func (s *PostgresStore) Count(ctx context.Context, table string, filters []Filter) (int, error) {
	defer s.metrics.TrackStoreOperation("count", table)(time.Now())

	where, args := whereClause(filters, 1)
	query := "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(table) + where
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, s.mapError("count", table, err)
	}
	return n, nil
}

// Ping checks the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// mapError turns driver errors into the repository taxonomy.
func (s *PostgresStore) mapError(op, table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			s.metrics.RecordStoreError(op, table, "unique")
			return &ConstraintError{
				Kind:       ConstraintUnique,
				Table:      table,
				Column:     constraintColumn(table, pqErr),
				Constraint: pqErr.Constraint,
				Detail:     pqErr.Detail,
			}
		case "foreign_key_violation":
			s.metrics.RecordStoreError(op, table, "foreign_key")
			return &ConstraintError{
				Kind:       ConstraintForeignKey,
				Table:      table,
				Column:     constraintColumn(table, pqErr),
				Constraint: pqErr.Constraint,
				Detail:     pqErr.Detail,
			}
		}
	}
	s.metrics.RecordStoreError(op, table, "database")
	return fmt.Errorf("%w: %s %s: %v", ErrDatabaseError, op, table, err)
}

// constraintColumn recovers the column of a violation from constraint names of the
// form <table>_<column>_key and <table>_<column>_fkey, which the server does not report.
func constraintColumn(table string, e *pq.Error) string {
	if e.Column != "" {
		return e.Column
	}
	name := strings.TrimPrefix(e.Constraint, table+"_")
	if name == e.Constraint {
		return ""
	}
	for _, suffix := range []string{"_fkey", "_key"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return ""
}

func whereClause(filters []Filter, first int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	var args []any
	n := first
	for _, f := range filters {
		if f.Value == nil {
			conds = append(conds, pq.QuoteIdentifier(f.Column)+" IS NULL")
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(f.Column), n))
		args = append(args, f.Value)
		n++
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedColumns(r Row) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// scanRows reads every row into a map. Text-like values arrive as []byte and are
// converted to string.
func scanRows(rows *sql.Rows, err error) ([]Row, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				r[c] = string(b)
				continue
			}
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
