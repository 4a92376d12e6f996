// Package table stores the records of one schema. A Table validates inbound
// records against its columns, assigns identifiers and answers identifier and
// query by example lookups with a linear scan in insertion order.
//
// A Table is not safe for concurrent use.
package table

import (
	"maps"
	"slices"

	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/coltype"
	"github.com/chirst/memdb/errors"
)

// Record is one stored row. Fields holds a value for every column of the table:
// an int64, a string, or nil for an absent nullable column.
type Record struct {
	ID     int64          `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (r Record) clone() Record {
	return Record{ID: r.ID, Fields: maps.Clone(r.Fields)}
}

// SaveResult is the outcome of saving one element in SaveAll.
type SaveResult struct {
	Record Record
	Err    error
}

type Table struct {
	schema  *catalog.TableSchema
	entries []Record
	nextID  int64
}

func New(schema *catalog.TableSchema) *Table {
	return &Table{
		schema:  schema,
		entries: []Record{},
		nextID:  1,
	}
}

func (t *Table) Name() string {
	return t.schema.Name
}

// Columns returns a copy of the column definitions in declared order.
func (t *Table) Columns() []catalog.ColumnDef {
	return slices.Clone(t.schema.Columns)
}

// Len is the number of stored records.
func (t *Table) Len() int {
	return len(t.entries)
}

// NextID is the identifier the next saved record will get.
func (t *Table) NextID() int64 {
	return t.nextID
}

// Save validates obj and appends it as a new record. Keys of obj are matched
// to columns by normalized name and keys naming no column are dropped. Nothing
// is stored when an error is returned.
func (t *Table) Save(obj map[string]any) (Record, error) {
	input, err := normalizeFields("save", obj)
	if err != nil {
		return Record{}, err
	}
	fields := make(map[string]any, len(t.schema.Columns))
	for _, col := range t.schema.Columns {
		v := input[col.Name]
		if v == nil && !col.Nullable {
			return Record{}, errors.NewMissingField(t.schema.Name, col.Name)
		}
		fields[col.Name] = v
	}
	r := Record{ID: t.nextID, Fields: fields}
	t.nextID++
	t.entries = append(t.entries, r)
	return r.clone(), nil
}

// SaveAll saves each element in order. A failed element does not undo the
// elements saved before it.
func (t *Table) SaveAll(objs []map[string]any) []SaveResult {
	ret := make([]SaveResult, 0, len(objs))
	for _, obj := range objs {
		r, err := t.Save(obj)
		ret = append(ret, SaveResult{Record: r, Err: err})
	}
	return ret
}

// GetByID returns the first record with the identifier id.
func (t *Table) GetByID(id int64) (Record, error) {
	for _, r := range t.entries {
		if r.ID == id {
			return r.clone(), nil
		}
	}
	return Record{}, errors.Wrapf(errors.ErrRecordNotFound, "%s id %d", t.schema.Name, id)
}

// QueryByExample returns every record whose fields equal all values in
// criteria, in insertion order. A key naming no column matches nothing. Empty
// criteria match every record.
func (t *Table) QueryByExample(criteria map[string]any) ([]Record, error) {
	want, err := normalizeFields("query", criteria)
	if err != nil {
		return nil, err
	}
	ret := []Record{}
	for _, r := range t.entries {
		if matches(r, want) {
			ret = append(ret, r.clone())
		}
	}
	return ret, nil
}

func matches(r Record, want map[string]any) bool {
	for k, v := range want {
		got, ok := r.Fields[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

// GetAll returns every record in insertion order.
func (t *Table) GetAll() []Record {
	ret := make([]Record, 0, len(t.entries))
	for _, r := range t.entries {
		ret = append(ret, r.clone())
	}
	return ret
}

// Get dispatches on the kind of key. An integer key is an identifier lookup
// and yields one record. A map key is a query by example. Any other key is
// rejected.
func (t *Table) Get(key any) ([]Record, error) {
	switch k := key.(type) {
	case map[string]any:
		return t.QueryByExample(k)
	case string, nil:
		return nil, errors.NewInput("get", "unsupported key type %T", key)
	}
	n, ok := coltype.Normalize(key)
	if !ok {
		return nil, errors.NewInput("get", "unsupported key type %T", key)
	}
	r, err := t.GetByID(n.(int64))
	if err != nil {
		return nil, err
	}
	return []Record{r}, nil
}

// normalizeFields returns m with names and values in stored form. When two
// keys normalize to the same name the one already in normal form wins.
func normalizeFields(op string, m map[string]any) (map[string]any, error) {
	ret := make(map[string]any, len(m))
	for k, v := range m {
		nv, ok := coltype.Normalize(v)
		if !ok {
			return nil, errors.NewInput(op, "unsupported value type %T for %s", v, k)
		}
		nk := catalog.NormalizeName(k)
		if _, exists := ret[nk]; exists && nk != k {
			continue
		}
		ret[nk] = nv
	}
	return ret, nil
}
