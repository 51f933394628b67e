// Package catalog owns translation records, their tags, and the rules that
// govern them.
//
// The package is storage-agnostic: [Store] is implemented by
// catalog/postgres in production and by in-memory fakes in tests. [Service]
// validates input, runs writes in a store transaction, and reconciles tag
// associations so that a translation ends up linked to exactly the requested
// tag set.
//
// Absent and empty tag lists differ on purpose: a nil slice leaves
// associations untouched, a non-nil empty slice clears them.
package catalog
