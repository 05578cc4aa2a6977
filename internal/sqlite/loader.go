package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// loadNodes inserts JSONL node records into an empty container. Loading is
// transactional: either every usable record is inserted or nothing is.
// Malformed records, records violating constraints and primitives whose
// data does not fill their type and dims are skipped; unknown fields are
// ignored.
func loadNodes(db *sql.DB, records []json.RawMessage) (int, error) {
	if _, err := db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return 0, fmt.Errorf("disabling foreign keys for load: %w", err)
	}
	defer db.Exec("PRAGMA foreign_keys = ON")

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(nodeColumns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO nodes (%s) VALUES (%s)",
		strings.Join(nodeColumns, ", "), placeholders))
	if err != nil {
		return 0, fmt.Errorf("preparing node insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	roots := 0
	for _, raw := range records {
		var r nodeRecord
		if err := json.Unmarshal(raw, &r); err != nil || r.NodeID == "" || r.Name == "" {
			continue
		}
		if r.ParentID == nil {
			if roots > 0 {
				continue
			}
			roots++
		}
		if !r.IsStruct && !validPrimitive(r) {
			continue
		}
		dims, err := encodeDims(r.Dims)
		if err != nil {
			continue
		}
		var parent any
		if r.ParentID != nil {
			parent = *r.ParentID
		}
		if _, err := stmt.Exec(r.NodeID, parent, strings.ToUpper(r.Name), r.Cell, r.Ordinal, r.Type,
			boolInt(r.IsStruct), dims, boolInt(r.Defined), r.Data, r.CreatedAt, r.UpdatedAt); err != nil {
			continue
		}
		loaded++
	}
	if roots == 0 {
		return 0, fmt.Errorf("no root node in records")
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// validPrimitive reports whether a primitive record has a known type,
// valid extents and, when defined, exactly the bytes its shape needs.
func validPrimitive(r nodeRecord) bool {
	tag, err := types.ParseTypeTag(r.Type)
	if err != nil {
		return false
	}
	dims := types.StoreShape(r.Dims)
	if dims.Validate(types.MaxComponentDims) != nil {
		return false
	}
	return !r.Defined || len(r.Data) == dims.Size()*tag.Width()
}
