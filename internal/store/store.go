// Package store holds the persistence adapters for the checklist: the
// workspace JSON file, the global SQLite snapshot store, and timestamped
// backup files. All adapters serialize the same item forest.
package store

import "github.com/pasperfection/checklist/internal/model"

// Adapter is the contract shared by every persistence backend.
//
// Save overwrites the whole backing resource and is idempotent. Load
// returns an empty collection, never an error, when the backing resource
// is absent or unparseable, so a damaged file can never block startup.
type Adapter interface {
	Save(items []*model.Item) error
	Load() []*model.Item
}
