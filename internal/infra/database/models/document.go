package models

import (
	"time"
)

// Document is one stored record. Collections share a single table keyed by
// (collection, doc_id); the payload is the record serialized as JSON.
// TenantID is duplicated out of the payload so every query can scope on it.
type Document struct {
	Collection string    `json:"collection" gorm:"primaryKey;type:text"`
	DocID      string    `json:"id" gorm:"primaryKey;type:text"`
	TenantID   string    `json:"tenant_id" gorm:"type:text;index;not null"`
	Data       string    `json:"data" gorm:"type:jsonb"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null"`
}
