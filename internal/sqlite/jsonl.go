package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// nodeRecord is the JSONL form of one node.
type nodeRecord struct {
	NodeID    string  `json:"node_id"`
	ParentID  *string `json:"parent_id"`
	Name      string  `json:"name"`
	Cell      int     `json:"cell"`
	Ordinal   int     `json:"ordinal"`
	Type      string  `json:"type"`
	IsStruct  bool    `json:"is_struct"`
	Dims      []int   `json:"dims"`
	Defined   bool    `json:"defined"`
	Data      []byte  `json:"data,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func recordOf(n *node) nodeRecord {
	r := nodeRecord{
		NodeID:    n.id,
		Name:      n.name,
		Cell:      n.cell,
		Ordinal:   n.ordinal,
		Type:      n.typ,
		IsStruct:  n.isStruct,
		Dims:      []int(n.dims),
		Defined:   n.defined,
		Data:      n.data,
		CreatedAt: n.createdAt,
		UpdatedAt: n.updatedAt,
	}
	if r.Dims == nil {
		r.Dims = []int{}
	}
	if n.parentID.Valid {
		p := n.parentID.String
		r.ParentID = &p
	}
	return r
}

// readJSONL reads a JSONL file and returns each non-empty line that is
// valid JSON. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path: temp file, fsync, rename.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// dumpNodes returns every node of a container as JSONL records, parents
// before children.
func dumpNodes(db *sql.DB) ([]json.RawMessage, error) {
	rows, err := db.Query(`WITH RECURSIVE tree(id, depth) AS (
        SELECT node_id, 0 FROM nodes WHERE parent_id IS NULL
        UNION ALL
        SELECT n.node_id, t.depth + 1 FROM nodes n JOIN tree t ON n.parent_id = t.id
    )
    SELECT n.node_id, n.parent_id, n.name, n.cell, n.ordinal, n.type, n.is_struct, n.dims, n.defined, n.data, n.created_at, n.updated_at
    FROM nodes n JOIN tree t ON n.node_id = t.id
    ORDER BY t.depth, n.parent_id, n.cell, n.ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(recordOf(n))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", n.id, err)
		}
		records = append(records, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	return records, nil
}
