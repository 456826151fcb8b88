// Package notes implements user-owned note documents: the model, the
// PostgreSQL store with pagination, tag filtering and full-text search, and
// the HTTP CRUD surface.
//
// Every store operation is scoped by the owning user. A note that exists but
// belongs to someone else is indistinguishable from a note that does not
// exist: both read as not found.
package notes
