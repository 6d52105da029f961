// internal/model/kv_entry.go
package model

import "time"

// KVEntry is one persisted document of the local key/value store.
type KVEntry struct {
	Key       string    `gorm:"column:doc_key;primaryKey;type:varchar(191)"`
	Value     string    `gorm:"column:doc_value;type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
