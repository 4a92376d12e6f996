package db

import (
	"reflect"
	"testing"

	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/errors"
	"github.com/chirst/memdb/table"
)

func TestSQLUnrecognized(t *testing.T) {
	db := mustCreateDB(t)
	for _, sql := range []string{"", "SELECT * FROM person", "DROP TABLE person;", "hello"} {
		res, err := db.SQL(sql)
		if err != nil {
			t.Fatalf("expected no error for %q got %s", sql, err)
		}
		if !res.Empty() {
			t.Fatalf("expected empty result for %q got %#v", sql, res)
		}
	}
	if len(db.Tables()) != 0 {
		t.Fatalf("expected no tables got %v", db.Tables())
	}
}

func TestSQLErrors(t *testing.T) {
	db := mustCreateDB(t)
	mustExecute(t, db, "CREATE TABLE t (a INTEGER, b TEXT NOT NULL)")
	cases := []struct {
		sql    string
		expect error
	}{
		{sql: "CREATE TABLE t (a); CREATE TABLE u (b);", expect: errors.ErrMultipleStatements},
		{sql: "INSERT INTO t (a, b) VALUES (1)", expect: errors.ErrColumnValueCountMismatch},
		{sql: "INSERT INTO t (a) VALUES (1)", expect: errors.ErrMissingRequiredField},
		{sql: "INSERT INTO t VALUES (1, 2)", expect: errors.ErrMalformedClause},
		{sql: "CREATE TABLE t (c)", expect: errors.ErrDuplicateSchema},
		{sql: "CREATE TABLE u ()", expect: errors.ErrInvalidDefinition},
	}
	for _, c := range cases {
		t.Run(c.sql, func(t *testing.T) {
			if _, err := db.SQL(c.sql); !errors.Is(err, c.expect) {
				t.Fatalf("expected %v got %v", c.expect, err)
			}
		})
	}
	all, err := db.GetAll("t")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no records got %d", len(all))
	}
}

func TestSQLMatchesDirectCalls(t *testing.T) {
	viaSQL := mustCreateDB(t)
	direct := mustCreateDB(t)

	mustExecute(t, viaSQL, "CREATE TABLE People (id INTEGER PRIMARY KEY, name TEXT);")
	if _, err := direct.AddSchema("people", catalog.Columns("id", "name")); err != nil {
		t.Fatal(err)
	}
	r := mustExecute(t, viaSQL, "INSERT INTO people (id, name) VALUES (1, 'Alice');")
	d, err := direct.Save("people", map[string]any{"id": 1, "name": "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*r.Record, d) {
		t.Fatalf("expected %#v got %#v", d, *r.Record)
	}
	expect := table.Record{ID: 1, Fields: map[string]any{"id": int64(1), "name": "Alice"}}
	if !reflect.DeepEqual(d, expect) {
		t.Fatalf("expected %#v got %#v", expect, d)
	}
	sd, err := viaSQL.Print().Digest()
	if err != nil {
		t.Fatal(err)
	}
	dd, err := direct.Print().Digest()
	if err != nil {
		t.Fatal(err)
	}
	if sd != dd {
		t.Fatalf("expected digests to match got %s and %s", sd, dd)
	}
}

func TestStatementCache(t *testing.T) {
	cases := map[string][]Option{
		"cache enabled":  nil,
		"cache disabled": {WithStatementCache(0)},
		"tiny cache":     {WithStatementCache(1)},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			db := mustCreateDB(t, opts...)
			mustExecute(t, db, "CREATE TABLE t (a)")
			for i := 1; i <= 3; i++ {
				res := mustExecute(t, db, "INSERT INTO t (a) VALUES (7)")
				if res.Record.ID != int64(i) {
					t.Fatalf("expected id %d got %d", i, res.Record.ID)
				}
			}
			// a cached statement must not share field maps between records
			all, err := db.GetAll("t")
			if err != nil {
				t.Fatal(err)
			}
			all[0].Fields["a"] = int64(9)
			again, err := db.GetByID("t", 2)
			if err != nil {
				t.Fatal(err)
			}
			if again.Fields["a"] != int64(7) {
				t.Fatalf("expected 7 got %v", again.Fields["a"])
			}
		})
	}
}
