// Package hds is the marshalling bridge between a hierarchical store engine
// and callers that want typed, caller-ordered buffers.
//
// A Session wraps one types.Engine. Locators are handles on store objects;
// they are owned by the innermost open scope (Begin/End) and are released
// either explicitly with Annul or when their scope ends. Data moves either
// by copy (Get, Put, Read) or through a MappedRegion onto an array
// component (Map, Unmap).
//
// Indices, axes and extension ordinals are zero-based and in caller order
// at this API; shapes are types.Shape (caller order). Translation to the
// engine's one-based store-order conventions happens inside the package.
//
// A Session performs no locking. Callers that share one across goroutines
// must serialize access themselves.
package hds
