// Package types defines the Engine interface consumed by the bridge, the
// TypeTag and Shape conventions shared by callers and engines, the Buffer
// type, configuration, and the error kinds every bridge operation reports.
//
// Two dimension conventions meet at this package: Shape is caller order
// (slowest-varying axis first) and StoreShape is store order (fastest first).
// Values only move between the two through Shape.Store and StoreShape.Caller.
package types
