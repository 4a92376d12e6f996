// db serves as an interface for the store where raw statements or direct calls
// go in and records come out. db is intended to be consumed by things like a
// repl (read eval print loop) or a program embedding the store.
//
// A DB is not safe for concurrent use. Callers sharing one must serialize
// access themselves.
package db

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/chirst/memdb/cache"
	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/compiler"
	"github.com/chirst/memdb/internal/logging"
	"github.com/chirst/memdb/table"
)

// defaultStatementCacheSize is how many compiled statements are kept unless
// WithStatementCache says otherwise.
const defaultStatementCacheSize = 128

type stmtCache interface {
	Get(key string) (compiler.Stmt, bool)
	Add(key string, stmt compiler.Stmt)
}

type DB struct {
	// id identifies this store in logs and snapshots.
	id      string
	catalog *catalog.Catalog
	tables  map[string]*table.Table
	// stmts is nil when statement caching is disabled.
	stmts  stmtCache
	logger *slog.Logger
}

// Option configures a DB.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	cacheSize int
}

// WithLogger sets the logger. The default is the logging package's global
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithStatementCache sets how many compiled statements are cached. A size of
// zero or less disables the cache.
func WithStatementCache(size int) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}

// New creates an empty store.
func New(opts ...Option) *DB {
	cfg := &config{
		logger:    logging.Component("db"),
		cacheSize: defaultStatementCacheSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	db := &DB{
		id:      uuid.NewString(),
		catalog: catalog.NewCatalog(),
		tables:  map[string]*table.Table{},
	}
	if cfg.cacheSize > 0 {
		db.stmts = cache.NewLRU(cfg.cacheSize)
	}
	db.logger = cfg.logger.With("store", db.id)
	db.logger.Debug("store opened", "statement_cache", cfg.cacheSize)
	return db
}

// ID is the unique identifier of this store.
func (db *DB) ID() string {
	return db.id
}

// AddSchema creates an empty table and returns its normalized name. Schema
// and column names are normalized to lower case and a schema name may only be
// used once.
func (db *DB) AddSchema(name string, columns []catalog.ColumnDef) (string, error) {
	ts, err := catalog.NewTableSchema(name, columns)
	if err != nil {
		db.logger.Debug("add schema failed", "schema", name, "err", err)
		return "", err
	}
	if err := db.catalog.AddSchema(ts); err != nil {
		db.logger.Debug("add schema failed", "schema", ts.Name, "err", err)
		return "", err
	}
	db.tables[ts.Name] = table.New(ts)
	db.logger.Debug("schema created", "schema", ts.Name, "columns", len(ts.Columns))
	return ts.Name, nil
}

// Table returns the table for a schema name. Every other operation taking a
// schema name goes through this lookup.
func (db *DB) Table(name string) (*table.Table, error) {
	ts, err := db.catalog.GetSchema(name)
	if err != nil {
		return nil, err
	}
	return db.tables[ts.Name], nil
}

// Tables returns the schema names in creation order.
func (db *DB) Tables() []string {
	return db.catalog.SchemaNames()
}

// Version changes every time a schema is added.
func (db *DB) Version() string {
	return db.catalog.GetVersion()
}

// Save validates obj against the schema's columns and stores it as a new
// record.
func (db *DB) Save(schema string, obj map[string]any) (table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return table.Record{}, err
	}
	r, err := t.Save(obj)
	if err != nil {
		db.logger.Debug("save failed", "schema", t.Name(), "err", err)
		return table.Record{}, err
	}
	db.logger.Debug("record saved", "schema", t.Name(), "id", r.ID)
	return r, nil
}

// SaveAll saves each object in order. The error is only set when the schema
// does not exist; failures of single objects are reported in their result and
// do not undo earlier saves.
func (db *DB) SaveAll(schema string, objs []map[string]any) ([]table.SaveResult, error) {
	t, err := db.Table(schema)
	if err != nil {
		return nil, err
	}
	res := t.SaveAll(objs)
	failed := 0
	for _, r := range res {
		if r.Err != nil {
			failed++
		}
	}
	db.logger.Debug("records saved", "schema", t.Name(), "saved", len(res)-failed, "failed", failed)
	return res, nil
}

// QueryByExample returns the records of schema whose fields equal every value
// in criteria, in insertion order. Empty criteria match every record.
func (db *DB) QueryByExample(schema string, criteria map[string]any) ([]table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return nil, err
	}
	return t.QueryByExample(criteria)
}

// Get looks up records by identifier when key is an integer or by example when
// key is a map[string]any. Other keys are rejected with an input error.
func (db *DB) Get(schema string, key any) ([]table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return nil, err
	}
	return t.Get(key)
}

// GetByID returns the record with the identifier id.
func (db *DB) GetByID(schema string, id int64) (table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return table.Record{}, err
	}
	return t.GetByID(id)
}

// GetAll returns every record of schema in insertion order.
func (db *DB) GetAll(schema string) ([]table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return nil, err
	}
	return t.GetAll(), nil
}

// Delete returns the records matching criteria exactly like QueryByExample.
// Matching records are NOT removed; the store is append only.
func (db *DB) Delete(schema string, criteria map[string]any) ([]table.Record, error) {
	t, err := db.Table(schema)
	if err != nil {
		return nil, err
	}
	res, err := t.QueryByExample(criteria)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("delete matched records", "schema", t.Name(), "matched", len(res))
	return res, nil
}

// Print returns a copy of every schema and record for inspection.
func (db *DB) Print() Snapshot {
	s := Snapshot{
		Store:   db.id,
		Version: db.catalog.GetVersion(),
		Schemas: []SchemaSnapshot{},
	}
	for _, name := range db.catalog.SchemaNames() {
		t := db.tables[name]
		s.Schemas = append(s.Schemas, SchemaSnapshot{
			Name:    name,
			Columns: t.Columns(),
			NextID:  t.NextID(),
			Entries: t.GetAll(),
		})
	}
	return s
}
