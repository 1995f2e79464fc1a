package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/infra/database/models"
)

// DocumentRepository is the gorm-backed tenant-scoped store. All collections
// share one table; caller filters, sort and limit are applied in memory after
// the SQL-level tenant scope because payloads are opaque JSON.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, collection string, data domain.Record, tenantID string) (string, error) {
	rec := data.Clone()
	rec[domain.FieldTenantID] = tenantID

	id := rec.Str(domain.FieldID)
	if id == "" {
		id = uuid.NewString()
		rec[domain.FieldID] = id
	}

	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)
	rec[domain.FieldCreatedAt] = stamp
	rec[domain.FieldUpdatedAt] = stamp

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	doc := models.Document{
		Collection: collection,
		DocID:      id,
		TenantID:   tenantID,
		Data:       string(payload),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&doc).Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id, tenantID string) (domain.Record, error) {
	return getAuthorized(ctx, r.db, collection, id, tenantID)
}

func (r *DocumentRepository) Update(ctx context.Context, collection, id string, updates domain.Record, tenantID string) (bool, error) {
	merged := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := getAuthorized(ctx, tx, collection, id, tenantID)
		if err != nil {
			return suppressNotFound(err)
		}

		now := time.Now().UTC()
		rec = mergeUpdates(rec, updates, now)

		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		result := tx.Model(&models.Document{}).
			Where("collection = ? AND doc_id = ? AND tenant_id = ?", collection, id, tenantID).
			Updates(map[string]any{"data": string(payload), "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		merged = result.RowsAffected > 0
		return nil
	})
	return merged, err
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, id, tenantID string) (bool, error) {
	if _, err := getAuthorized(ctx, r.db, collection, id, tenantID); err != nil {
		return false, suppressNotFound(err)
	}
	result := r.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ? AND tenant_id = ?", collection, id, tenantID).
		Delete(&models.Document{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DocumentRepository) Query(ctx context.Context, collection, tenantID string, q domain.Query) ([]domain.Record, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Where("collection = ? AND tenant_id = ?", collection, tenantID).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		var rec domain.Record
		if err := json.Unmarshal([]byte(doc.Data), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return domain.ApplyQuery(records, q), nil
}

// getAuthorized is the single authorization check behind every operation:
// a row that exists under another tenant and a row that does not exist are
// the same NotFoundError.
func getAuthorized(ctx context.Context, db *gorm.DB, collection, id, tenantID string) (domain.Record, error) {
	var doc models.Document
	err := db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "document"}
	}
	if err != nil {
		return nil, err
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(doc.Data), &rec); err != nil {
		return nil, err
	}
	if !authorized(rec, tenantID) {
		return nil, domain.NotFoundError{Resource: "document"}
	}
	return rec, nil
}

// authorized reports whether the record belongs to the requesting tenant.
func authorized(rec domain.Record, tenantID string) bool {
	return rec.Str(domain.FieldTenantID) == tenantID
}

// suppressNotFound keeps absence and cross-tenant access as a plain false
// result while letting real store failures surface to the caller.
func suppressNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// mergeUpdates applies a partial merge. tenant_id, id and created_at are
// immutable; updated_at is stamped to now.
func mergeUpdates(rec, updates domain.Record, now time.Time) domain.Record {
	out := rec.Clone()
	for k, v := range updates {
		switch k {
		case domain.FieldTenantID, domain.FieldID, domain.FieldCreatedAt:
			continue
		}
		out[k] = v
	}
	out[domain.FieldUpdatedAt] = now.Format(time.RFC3339)
	return out
}
