// Package driver enables memdb to be used with the go database/sql package.
//
// The data source name names a store shared by every connection opened with
// that name in the process. Statements are the ones db.SQL accepts and do not
// take parameters. Querying an INSERT returns the saved record as one row.
package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"

	"github.com/chirst/memdb/coltype"
	"github.com/chirst/memdb/db"
)

// rowIDColumn names the record identifier in query results.
const rowIDColumn = "rowid"

func init() {
	sql.Register("memdb", new())
}

func new() *memDriver {
	return &memDriver{stores: map[string]*store{}}
}

type memDriver struct {
	mu     sync.Mutex
	stores map[string]*store
}

// store serializes access to a db.DB shared by several connections.
type store struct {
	mu sync.Mutex
	db *db.DB
}

// Open implements driver.Driver. Connections opened with the same name share
// one store for the life of the process.
func (d *memDriver) Open(name string) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stores[name]
	if !ok {
		s = &store{db: db.New()}
		d.stores[name] = s
	}
	return &memConn{store: s}, nil
}

type memConn struct {
	store *store
}

// Begin implements driver.Conn.
func (c *memConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not supported")
}

// Close implements driver.Conn.
func (c *memConn) Close() error {
	return nil
}

// Prepare implements driver.Conn. Statements compile on execution so errors
// are reported by Exec or Query.
func (c *memConn) Prepare(query string) (driver.Stmt, error) {
	return &memStmt{store: c.store, query: query}, nil
}

// ExecContext implements driver.ExecerContext.
func (c *memConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) != 0 {
		return nil, errParams
	}
	return c.store.exec(query)
}

// QueryContext implements driver.QueryerContext.
func (c *memConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) != 0 {
		return nil, errParams
	}
	return c.store.query(query)
}

var errParams = errors.New("statement parameters are not supported")

type memStmt struct {
	store *store
	query string
}

// Close implements driver.Stmt.
func (s *memStmt) Close() error {
	return nil
}

// NumInput implements driver.Stmt.
func (s *memStmt) NumInput() int {
	return 0
}

// Exec implements driver.Stmt.
func (s *memStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.store.exec(s.query)
}

// Query implements driver.Stmt.
func (s *memStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.store.query(s.query)
}

func (s *store) sql(query string) (db.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.SQL(query)
}

func (s *store) exec(query string) (driver.Result, error) {
	res, err := s.sql(query)
	if err != nil {
		return nil, err
	}
	if res.Record == nil {
		return &memResult{}, nil
	}
	return &memResult{lastInsertID: res.Record.ID, rowsAffected: 1}, nil
}

func (s *store) query(query string) (driver.Rows, error) {
	res, err := s.sql(query)
	if err != nil {
		return nil, err
	}
	if res.Record == nil {
		return &memRows{cols: []string{}}, nil
	}
	s.mu.Lock()
	t, err := s.db.Table(res.Schema)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	cols := []string{rowIDColumn}
	row := []driver.Value{res.Record.ID}
	for _, c := range t.Columns() {
		cols = append(cols, c.Name)
		v, ok := coltype.Normalize(res.Record.Fields[c.Name])
		if !ok {
			v = nil
		}
		row = append(row, v)
	}
	return &memRows{cols: cols, rows: [][]driver.Value{row}}, nil
}

type memResult struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId implements driver.Result. It is the identifier of the record
// an INSERT saved.
func (r *memResult) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected implements driver.Result.
func (r *memResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

type memRows struct {
	cols   []string
	rows   [][]driver.Value
	rowIdx int
}

// Close implements driver.Rows.
func (r *memRows) Close() error {
	return nil
}

// Columns implements driver.Rows.
func (r *memRows) Columns() []string {
	return r.cols
}

// Next implements driver.Rows.
func (r *memRows) Next(dest []driver.Value) error {
	if r.rowIdx == len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.rowIdx])
	r.rowIdx += 1
	return nil
}
