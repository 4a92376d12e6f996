// Package catalog holds schema metadata: the canonical column definition, the
// name normalization every schema and column lookup goes through, and the set
// of defined schemas.
package catalog

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chirst/memdb/errors"
)

// ColumnDef is the definition of a single column.
type ColumnDef struct {
	Name string `json:"name"`
	// Nullable columns may be absent when a record is saved.
	Nullable bool `json:"nullable"`
}

// Columns returns non-nullable definitions for bare column names.
func Columns(names ...string) []ColumnDef {
	ret := make([]ColumnDef, 0, len(names))
	for _, n := range names {
		ret = append(ret, ColumnDef{Name: n})
	}
	return ret
}

// NormalizeName returns the canonical form of a schema or column name. Names
// are compared in lower case with surrounding whitespace removed.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// TableSchema is the definition of a table. It is not modified once it has
// been added to a Catalog.
type TableSchema struct {
	Name    string      `json:"name"`
	Columns []ColumnDef `json:"columns"`
}

// NewTableSchema validates and normalizes a schema definition.
func NewTableSchema(name string, columns []ColumnDef) (*TableSchema, error) {
	n := NormalizeName(name)
	if n == "" {
		return nil, errors.NewSchema("", errors.ErrMissingName)
	}
	if len(columns) == 0 {
		return nil, errors.NewSchema(n, errors.ErrMissingColumns)
	}
	ts := &TableSchema{
		Name:    n,
		Columns: make([]ColumnDef, 0, len(columns)),
	}
	for i, col := range columns {
		cn := NormalizeName(col.Name)
		if cn == "" {
			return nil, errors.NewSchema(n, errors.Wrapf(errors.ErrInvalidColumnSpec, "column %d has no name", i))
		}
		if _, exists := ts.Column(cn); exists {
			return nil, errors.NewSchema(n, errors.Wrapf(errors.ErrInvalidColumnSpec, "column %s defined twice", cn))
		}
		ts.Columns = append(ts.Columns, ColumnDef{Name: cn, Nullable: col.Nullable})
	}
	return ts, nil
}

// Column finds a column by its normalized name.
func (ts *TableSchema) Column(name string) (ColumnDef, bool) {
	i := slices.IndexFunc(ts.Columns, func(c ColumnDef) bool {
		return c.Name == name
	})
	if i == -1 {
		return ColumnDef{}, false
	}
	return ts.Columns[i], true
}

func (ts *TableSchema) ToJSON() ([]byte, error) {
	return json.Marshal(ts)
}

// Catalog holds every schema defined in a store.
type Catalog struct {
	schemas map[string]*TableSchema
	// order is schema names in creation order.
	order []string
	// version is replaced every time a schema is added so holders of derived
	// metadata can tell whether it is stale.
	version string
}

func NewCatalog() *Catalog {
	c := &Catalog{
		schemas: map[string]*TableSchema{},
	}
	c.setNewVersion()
	return c
}

// AddSchema registers ts. The name must not already be taken.
func (c *Catalog) AddSchema(ts *TableSchema) error {
	if c.SchemaExists(ts.Name) {
		return errors.NewSchema(ts.Name, errors.ErrDuplicateSchema)
	}
	c.schemas[ts.Name] = ts
	c.order = append(c.order, ts.Name)
	c.setNewVersion()
	return nil
}

func (c *Catalog) GetSchema(name string) (*TableSchema, error) {
	n := NormalizeName(name)
	ts, ok := c.schemas[n]
	if !ok {
		return nil, errors.NewSchema(n, errors.ErrSchemaNotFound)
	}
	return ts, nil
}

func (c *Catalog) SchemaExists(name string) bool {
	_, ok := c.schemas[NormalizeName(name)]
	return ok
}

// SchemaNames returns the normalized schema names in creation order.
func (c *Catalog) SchemaNames() []string {
	return slices.Clone(c.order)
}

// GetVersion returns a unique version identifier that is updated when the
// catalog is updated.
func (c *Catalog) GetVersion() string {
	return c.version
}

func (c *Catalog) setNewVersion() {
	c.version = uuid.NewString()
}
