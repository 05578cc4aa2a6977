package sqlite

// Schema DDL. One database file holds one container; every node of the
// container tree is a row of nodes. Children of a structure array element
// carry the element's one-based linear index in cell; children of a scalar
// structure carry cell 0.
const (
	createNodes = `CREATE TABLE IF NOT EXISTS nodes (
    node_id TEXT PRIMARY KEY,
    parent_id TEXT,
    name TEXT NOT NULL,
    cell INTEGER NOT NULL DEFAULT 0,
    ordinal INTEGER NOT NULL,
    type TEXT NOT NULL,
    is_struct INTEGER NOT NULL,
    dims TEXT NOT NULL,
    defined INTEGER NOT NULL DEFAULT 0,
    data BLOB,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (parent_id) REFERENCES nodes(node_id) ON DELETE CASCADE
);`

	createNodesIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_nodes_child
    ON nodes(parent_id, cell, name);`

	createNodesOrdinal = `CREATE INDEX IF NOT EXISTS idx_nodes_ordinal
    ON nodes(parent_id, cell, ordinal);`
)

// schemaStatements is applied in order when a container is created.
var schemaStatements = []string{
	createNodes,
	createNodesIndex,
	createNodesOrdinal,
}

// nodeColumns is the column list shared by node queries and the JSONL
// loader, in scan order.
var nodeColumns = []string{
	"node_id", "parent_id", "name", "cell", "ordinal", "type",
	"is_struct", "dims", "defined", "data", "created_at", "updated_at",
}
