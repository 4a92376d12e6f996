package db

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chirst/memdb/catalog"
	"github.com/chirst/memdb/table"
)

// Snapshot is a copy of every schema and record in a store at one point in
// time. It is meant for inspection and is not a stable serialization format.
type Snapshot struct {
	Store   string           `json:"store"`
	Version string           `json:"version"`
	Schemas []SchemaSnapshot `json:"schemas"`
}

type SchemaSnapshot struct {
	Name    string              `json:"name"`
	Columns []catalog.ColumnDef `json:"columns"`
	NextID  int64               `json:"nextId"`
	Entries []table.Record      `json:"entries"`
}

// Digest is a BLAKE3 hash of the schemas and records. Two stores that went
// through the same operations have the same digest; the store id and catalog
// version are not part of it.
func (s Snapshot) Digest() (string, error) {
	data, err := json.Marshal(s.Schemas)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Proto converts the snapshot to a protobuf Struct. Integers become protobuf
// numbers.
func (s Snapshot) Proto() (*structpb.Struct, error) {
	schemas := make([]any, 0, len(s.Schemas))
	for _, ss := range s.Schemas {
		columns := make([]any, 0, len(ss.Columns))
		for _, c := range ss.Columns {
			columns = append(columns, map[string]any{
				"name":     c.Name,
				"nullable": c.Nullable,
			})
		}
		entries := make([]any, 0, len(ss.Entries))
		for _, r := range ss.Entries {
			entries = append(entries, map[string]any{
				"id":     r.ID,
				"fields": r.Fields,
			})
		}
		schemas = append(schemas, map[string]any{
			"name":    ss.Name,
			"columns": columns,
			"nextId":  ss.NextID,
			"entries": entries,
		})
	}
	return structpb.NewStruct(map[string]any{
		"store":   s.Store,
		"version": s.Version,
		"schemas": schemas,
	})
}

// JSON renders the snapshot as indented protobuf JSON for debug output.
func (s Snapshot) JSON() ([]byte, error) {
	pb, err := s.Proto()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(pb)
}
