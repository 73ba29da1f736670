package model

import "time"

// BackupRecord is the on-disk shape of a single backup file: a full
// timestamped snapshot of the item store.
type BackupRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Items     []*Item   `json:"items"`
}

// BackupMetadata describes an existing backup file without loading its items.
type BackupMetadata struct {
	File      string    `json:"file"`
	Timestamp time.Time `json:"timestamp"`
	ItemCount int       `json:"item_count"`
}
