package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// node is one row of the nodes table.
type node struct {
	id        string
	parentID  sql.NullString
	name      string
	cell      int
	ordinal   int
	typ       string
	isStruct  bool
	dims      types.StoreShape
	defined   bool
	data      []byte
	createdAt string
	updatedAt string
}

// errNoRow is returned by node queries that match nothing.
var errNoRow = errors.New("no such node")

const selectNode = `SELECT node_id, parent_id, name, cell, ordinal, type, is_struct, dims, defined, data, created_at, updated_at FROM nodes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(r rowScanner) (*node, error) {
	var (
		n        node
		isStruct int
		defined  int
		dims     string
	)
	if err := r.Scan(&n.id, &n.parentID, &n.name, &n.cell, &n.ordinal, &n.typ,
		&isStruct, &dims, &defined, &n.data, &n.createdAt, &n.updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoRow
		}
		return nil, err
	}
	n.isStruct = isStruct != 0
	n.defined = defined != 0
	if err := json.Unmarshal([]byte(dims), &n.dims); err != nil {
		return nil, fmt.Errorf("decoding dims of %s: %w", n.id, err)
	}
	if len(n.dims) == 0 {
		n.dims = nil
	}
	return &n, nil
}

func loadNode(db *sql.DB, id string) (*node, error) {
	return scanNode(db.QueryRow(selectNode+` WHERE node_id = ?`, id))
}

func loadRoot(db *sql.DB) (*node, error) {
	return scanNode(db.QueryRow(selectNode + ` WHERE parent_id IS NULL`))
}

func findChild(db *sql.DB, parentID string, cell int, name string) (*node, error) {
	return scanNode(db.QueryRow(selectNode+` WHERE parent_id = ? AND cell = ? AND name = ?`,
		parentID, cell, strings.ToUpper(name)))
}

// childAt returns the n-th child (one-based) in creation order.
func childAt(db *sql.DB, parentID string, cell, n int) (*node, error) {
	return scanNode(db.QueryRow(selectNode+` WHERE parent_id = ? AND cell = ? ORDER BY ordinal LIMIT 1 OFFSET ?`,
		parentID, cell, n-1))
}

func countChildren(db *sql.DB, parentID string, cell int) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM nodes WHERE parent_id = ? AND cell = ?`, parentID, cell).Scan(&n)
	return n, err
}

// insertNode creates a child node and returns it.
func insertNode(db *sql.DB, parentID string, cell int, name, typ string, isStruct bool, dims types.StoreShape) (*node, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	dimsJSON, err := encodeDims(dims)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var parent any
	if parentID != "" {
		parent = parentID
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	var ordinal int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM nodes WHERE parent_id IS ? AND cell = ?`,
		parent, cell).Scan(&ordinal); err != nil {
		return nil, fmt.Errorf("computing ordinal: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO nodes (node_id, parent_id, name, cell, ordinal, type, is_struct, dims, defined, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, ?, ?)`,
		id.String(), parent, strings.ToUpper(name), cell, ordinal, typ, boolInt(isStruct), dimsJSON, now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting node %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing insert: %w", err)
	}

	return &node{
		id:        id.String(),
		parentID:  sql.NullString{String: parentID, Valid: parentID != ""},
		name:      strings.ToUpper(name),
		cell:      cell,
		ordinal:   ordinal,
		typ:       typ,
		isStruct:  isStruct,
		dims:      dims,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// writeData stores a primitive's full data blob and marks it defined.
func writeData(db *sql.DB, id string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := db.Exec(`UPDATE nodes SET data = ?, defined = 1, updated_at = ? WHERE node_id = ?`, data, now, id)
	if err != nil {
		return fmt.Errorf("writing data of %s: %w", id, err)
	}
	return nil
}

// retypeNode changes a node's type and dimensions.
func retypeNode(db *sql.DB, id, typ string, dims types.StoreShape) error {
	dimsJSON, err := encodeDims(dims)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = db.Exec(`UPDATE nodes SET type = ?, dims = ?, updated_at = ? WHERE node_id = ?`, typ, dimsJSON, now, id)
	if err != nil {
		return fmt.Errorf("retyping %s: %w", id, err)
	}
	return nil
}

// deleteNode removes a node and, through the cascade, its subtree.
func deleteNode(db *sql.DB, id string) error {
	if _, err := db.Exec(`DELETE FROM nodes WHERE node_id = ?`, id); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	return nil
}

func encodeDims(dims types.StoreShape) (string, error) {
	if dims == nil {
		dims = types.StoreShape{}
	}
	b, err := json.Marshal([]int(dims))
	if err != nil {
		return "", fmt.Errorf("encoding dims: %w", err)
	}
	return string(b), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
