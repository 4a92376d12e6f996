package db

import (
	"fmt"

	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/compiler"
	"github.com/chirst/memdb/errors"
	"github.com/chirst/memdb/table"
)

// Result is the outcome of SQL. Schema is the normalized name of the table a
// CREATE TABLE created or an INSERT INTO wrote to and Record is only set by
// INSERT INTO. Both are empty when the statement was not recognized.
type Result struct {
	Schema string
	Record *table.Record
}

// Empty is true when the statement had no effect.
func (r Result) Empty() bool {
	return r.Schema == "" && r.Record == nil
}

// SQL executes one CREATE TABLE or INSERT INTO statement. The statement is
// handed to AddSchema or Save exactly as a direct caller would, so it fails
// with the same errors. Text that is neither statement is ignored and returns
// an empty Result without an error.
//
// Columns created with SQL are never nullable; type and constraint text such
// as NOT NULL is parsed and discarded.
func (db *DB) SQL(statement string) (Result, error) {
	stmt, err := db.compile(statement)
	if err != nil {
		if errors.Is(err, errors.ErrUnrecognizedStatement) {
			db.logger.Debug("statement ignored", "statement", statement)
			return Result{}, nil
		}
		db.logger.Debug("compile failed", "statement", statement, "err", err)
		return Result{}, err
	}
	switch s := stmt.(type) {
	case *compiler.CreateStmt:
		cols := make([]catalog.ColumnDef, 0, len(s.ColDefs))
		for _, cd := range s.ColDefs {
			cols = append(cols, catalog.ColumnDef{Name: cd.ColName})
		}
		name, err := db.AddSchema(s.TableName, cols)
		if err != nil {
			return Result{}, err
		}
		return Result{Schema: name}, nil
	case *compiler.InsertStmt:
		r, err := db.Save(s.TableName, s.Fields())
		if err != nil {
			return Result{}, err
		}
		return Result{Schema: catalog.NormalizeName(s.TableName), Record: &r}, nil
	}
	return Result{}, fmt.Errorf("statement %T not supported", stmt)
}

// compile returns the compiled statement, consulting the statement cache
// first. Only statements that compiled are cached.
func (db *DB) compile(statement string) (compiler.Stmt, error) {
	if db.stmts != nil {
		if s, ok := db.stmts.Get(statement); ok {
			db.logger.Debug("statement cache hit", "statement", statement)
			return s, nil
		}
	}
	s, err := compiler.Compile(statement)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("statement compiled", "statement", statement)
	if db.stmts != nil {
		db.stmts.Add(statement, s)
	}
	return s, nil
}
