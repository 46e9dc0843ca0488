package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore(TableDef{Name: "things"})
	ctx := context.Background()

	in := Row{"id": "1", "name": "original", "is_active": true}
	_, err := s.Insert(ctx, "things", []Row{in})
	require.NoError(t, err)
	in["name"] = "mutated after insert"

	rows, err := s.Select(ctx, Query{Table: "things"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rows[0]["name"] = "mutated after select"

	again, err := s.Select(ctx, Query{Table: "things"})
	require.NoError(t, err)
	assert.Equal(t, "original", again[0]["name"])
}

func TestMemoryStoreUniqueIndexes(t *testing.T) {
	s := NewMemoryStore(TableDef{
		Name: "codes",
		Unique: []UniqueIndex{
			{Name: "codes_code_key", Column: "code", ActiveOnly: true},
			{Name: "codes_email_key", Column: "email"},
		},
	})
	ctx := context.Background()

	_, err := s.Insert(ctx, "codes", []Row{
		{"id": "1", "code": "A", "email": "a@x.lk", "is_active": false},
		{"id": "2", "code": "B", "email": nil, "is_active": true},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		row     Row
		wantErr bool
		column  string
	}{
		{"partial index ignores inactive rows", Row{"id": "3", "code": "A", "is_active": true}, false, ""},
		{"partial index blocks active duplicate", Row{"id": "4", "code": "B", "is_active": true}, true, "code"},
		{"full index blocks inactive duplicate", Row{"id": "5", "email": "a@x.lk", "is_active": true}, true, "email"},
		{"null never conflicts", Row{"id": "6", "code": "C", "email": nil, "is_active": true}, false, ""},
		{"primary key", Row{"id": "2", "code": "D", "is_active": true}, true, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Insert(ctx, "codes", []Row{tt.row})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ce *ConstraintError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ConstraintUnique, ce.Kind)
			assert.Equal(t, tt.column, ce.Column)
		})
	}
}

func TestMemoryStoreUpdateChecksConstraints(t *testing.T) {
	s := NewMemoryStore(
		TableDef{Name: "parents"},
		TableDef{
			Name:       "children",
			Unique:     []UniqueIndex{{Name: "children_code_key", Column: "code", ActiveOnly: true}},
			References: []Reference{{Name: "children_parent_fkey", Column: "parent_id", Table: "parents"}},
		},
	)
	ctx := context.Background()

	_, err := s.Insert(ctx, "parents", []Row{{"id": "p1", "is_active": true}})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "children", []Row{
		{"id": "c1", "code": "X", "parent_id": "p1", "is_active": true},
		{"id": "c2", "code": "Y", "parent_id": nil, "is_active": true},
	})
	require.NoError(t, err)

	_, err = s.Update(ctx, "children", []Filter{Eq("id", "c2")}, Row{"code": "X"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = s.Update(ctx, "children", []Filter{Eq("id", "c2")}, Row{"parent_id": "p9"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	rows, err := s.Select(ctx, Query{Table: "children", Filters: []Filter{Eq("id", "c2")}})
	require.NoError(t, err)
	assert.Equal(t, "Y", rows[0]["code"])
	assert.Nil(t, rows[0]["parent_id"])

	updated, err := s.Update(ctx, "children", []Filter{Eq("parent_id", nil)}, Row{"parent_id": "p1"})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "c2", updated[0]["id"])
}

func TestMemoryStoreOrderingAndCoercion(t *testing.T) {
	s := NewMemoryStore(TableDef{Name: "levels"})
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Insert(ctx, "levels", []Row{
		{"id": "a", "qty": decimal.RequireFromString("10.5"), "at": base.Add(2 * time.Hour), "note": nil},
		{"id": "b", "qty": decimal.RequireFromString("2"), "at": base, "note": "x"},
		{"id": "c", "qty": decimal.RequireFromString("7.25"), "at": base.Add(time.Hour), "note": "y"},
	})
	require.NoError(t, err)

	ids := func(rows []Row) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r["id"].(string)
		}
		return out
	}

	rows, err := s.Select(ctx, Query{Table: "levels", Order: &Order{Column: "qty", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(rows))

	rows, err = s.Select(ctx, Query{Table: "levels", Order: &Order{Column: "at"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(rows))

	rows, err = s.Select(ctx, Query{Table: "levels", Order: &Order{Column: "note", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(rows))

	rows, err = s.Select(ctx, Query{Table: "levels", Order: &Order{Column: "note"}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(rows))

	rows, err = s.Select(ctx, Query{Table: "levels", Filters: []Filter{Eq("qty", "7.250")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(rows))

	n, err := s.Count(ctx, "levels", []Filter{Eq("qty", 2)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStoreConcurrentInsertsKeepUniqueness(t *testing.T) {
	s := NewMemoryStore(TableDef{
		Name:   "customers",
		Unique: []UniqueIndex{{Name: "customers_code_key", Column: "code", ActiveOnly: true}},
	})
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Insert(ctx, "customers", []Row{{"id": string(rune('a' + i)), "code": "CUS001", "is_active": true}})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateKey)
	}
	assert.Equal(t, 1, ok)
}

func TestMemoryStoreUnknownTable(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Select(context.Background(), Query{Table: "nope"})
	assert.ErrorIs(t, err, ErrDatabaseError)
	_, err = s.Update(context.Background(), "nope", nil, Row{"a": 1})
	assert.ErrorIs(t, err, ErrDatabaseError)
	assert.NoError(t, s.Ping(context.Background()))
}
