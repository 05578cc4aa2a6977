// Package hdsbridge holds module-wide metadata. The bridge itself lives in
// pkg/hds and the SQLite engine in pkg/sqlite.
package hdsbridge

// Version is the module version reported by the hds command.
const Version = "0.1.0"
