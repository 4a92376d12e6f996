package compiler

import (
	"reflect"
	"testing"

	"github.com/chirst/memdb/errors"
)

type parseTestCase struct {
	name   string
	sql    string
	expect Stmt
}

func TestParseCreate(t *testing.T) {
	cases := []parseTestCase{
		{
			name: "bare columns",
			sql:  "CREATE TABLE Items (sku, qty)",
			expect: &CreateStmt{
				TableName: "Items",
				ColDefs: []ColDef{
					{ColName: "sku"},
					{ColName: "qty"},
				},
			},
		},
		{
			name: "types are kept as text",
			sql:  "create table T (id INT not null, name VARCHAR(10));",
			expect: &CreateStmt{
				TableName: "T",
				ColDefs: []ColDef{
					{ColName: "id", ColType: "int not null"},
					{ColName: "name", ColType: "varchar(10"},
				},
			},
		},
		{
			name: "collapses whitespace",
			sql:  "CREATE\n\tTABLE   t  (\n  a   INT,\n  b\n)",
			expect: &CreateStmt{
				TableName: "t",
				ColDefs: []ColDef{
					{ColName: "a", ColType: "int"},
					{ColName: "b"},
				},
			},
		},
		{
			name: "empty clause",
			sql:  "CREATE TABLE t ()",
			expect: &CreateStmt{
				TableName: "t",
				ColDefs:   []ColDef{{ColName: ""}},
			},
		},
		{
			name: "words before the keyword are skipped",
			sql:  "please create table t (a)",
			expect: &CreateStmt{
				TableName: "t",
				ColDefs:   []ColDef{{ColName: "a"}},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ret, err := Compile(c.sql)
			if err != nil {
				t.Fatalf("expected no err got err %s", err)
			}
			if !reflect.DeepEqual(ret, c.expect) {
				t.Fatalf("expected %#v got %#v", c.expect, ret)
			}
		})
	}
}

func TestParseInsert(t *testing.T) {
	cases := []parseTestCase{
		{
			name: "coerces and lowercases values",
			sql:  "INSERT INTO Items (sku, qty) VALUES (ABC1, 5)",
			expect: &InsertStmt{
				TableName: "Items",
				ColNames:  []string{"sku", "qty"},
				ColValues: []any{"abc1", int64(5)},
			},
		},
		{
			name: "quoted values keep case",
			sql:  "insert into T (id, Name) values (1, 'Alice');",
			expect: &InsertStmt{
				TableName: "T",
				ColNames:  []string{"id", "name"},
				ColValues: []any{int64(1), "Alice"},
			},
		},
		{
			name: "text after values is ignored",
			sql:  "INSERT INTO t (a) VALUES (1) trailing words",
			expect: &InsertStmt{
				TableName: "t",
				ColNames:  []string{"a"},
				ColValues: []any{int64(1)},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ret, err := Compile(c.sql)
			if err != nil {
				t.Fatalf("expected no err got err %s", err)
			}
			if !reflect.DeepEqual(ret, c.expect) {
				t.Fatalf("expected %#v got %#v", c.expect, ret)
			}
		})
	}
}

func TestInsertFields(t *testing.T) {
	stmt := &InsertStmt{
		ColNames:  []string{"a", "b", "a"},
		ColValues: []any{int64(1), "x", int64(3)},
	}
	expect := map[string]any{"a": int64(3), "b": "x"}
	if got := stmt.Fields(); !reflect.DeepEqual(got, expect) {
		t.Fatalf("expected %v got %v", expect, got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		sql    string
		expect error
	}{
		{name: "two statements", sql: "CREATE TABLE a (x); CREATE TABLE b (y);", expect: errors.ErrMultipleStatements},
		{name: "two semicolons", sql: "INSERT INTO a (x) VALUES (1);;", expect: errors.ErrMultipleStatements},
		{name: "two semicolons unrecognized", sql: "select 1;;", expect: errors.ErrMultipleStatements},
		{name: "unrecognized", sql: "SELECT * FROM foo", expect: errors.ErrUnrecognizedStatement},
		{name: "empty", sql: "", expect: errors.ErrUnrecognizedStatement},
		{name: "count mismatch", sql: "INSERT INTO T (a, b) VALUES (1)", expect: errors.ErrColumnValueCountMismatch},
		{name: "missing table keyword", sql: "CREATE foo (a)", expect: errors.ErrMalformedClause},
		{name: "missing name", sql: "CREATE TABLE (a)", expect: errors.ErrMalformedClause},
		{name: "two word name", sql: "CREATE TABLE my table (a)", expect: errors.ErrMalformedClause},
		{name: "unclosed clause", sql: "CREATE TABLE t (a, b", expect: errors.ErrMalformedClause},
		{name: "missing values", sql: "INSERT INTO t (a) (1)", expect: errors.ErrMalformedClause},
		{name: "missing value clause", sql: "INSERT INTO t (a) VALUES 1", expect: errors.ErrMalformedClause},
		{name: "missing into", sql: "INSERT t (a) VALUES (1)", expect: errors.ErrMalformedClause},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Compile(c.sql)
			if !errors.Is(err, c.expect) {
				t.Fatalf("expected %v got %v", c.expect, err)
			}
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected a parse error got %T", err)
			}
		})
	}
}
