package compiler

// ast defines the statements produced by the parser. Statements hold plain
// values so a compiled statement can be cached and executed more than once.

type Stmt interface{}

type CreateStmt struct {
	TableName string
	ColDefs   []ColDef
}

type ColDef struct {
	ColName string
	// ColType is everything after the column name, for example "INT not null"
	// or "varchar(13". It is kept for display only. Columns created from a
	// statement are never nullable.
	ColType string
}

type InsertStmt struct {
	TableName string
	ColNames  []string
	// ColValues are int64 or string and line up with ColNames by position.
	ColValues []any
}

// Fields zips ColNames and ColValues into a new map. When a column is named
// twice the later value wins.
func (s *InsertStmt) Fields() map[string]any {
	ret := make(map[string]any, len(s.ColNames))
	for i, name := range s.ColNames {
		ret[name] = s.ColValues[i]
	}
	return ret
}
