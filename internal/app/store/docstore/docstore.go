// internal/app/store/docstore/docstore.go

// Package docstore is the generic document-database adapter the typed
// stores are built on: get/set/update/delete on named collections keyed by
// string IDs. Single-document operations are atomic at the store level;
// there is no multi-document transaction support, and multi-step workflows
// (identifier renames, category migrations) are explicitly non-atomic.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document with the requested ID does not
// exist in the collection.
var ErrNotFound = errors.New("docstore: document not found")

// Store is the minimal document-database surface SpellHub consumes.
//
// Set is create-or-replace. Update merges the given top-level fields into
// the existing document and fails with ErrNotFound when the document is
// absent. ListAll decodes every document in the collection into out, which
// must be a pointer to a slice.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	Set(ctx context.Context, collection, id string, doc any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	ListAll(ctx context.Context, collection string, out any) error
}
