package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lienworks/lienos/internal/domain"
)

// TrackerUsecase is the CRUD surface for assets: create with per-type
// required-field validation, get, list, partial update, and soft/hard delete.
type TrackerUsecase struct {
	store    Store
	deadline *DeadlineUsecase
	now      func() time.Time
}

func NewTrackerUsecase(store Store, deadline *DeadlineUsecase) *TrackerUsecase {
	return &TrackerUsecase{
		store:    store,
		deadline: deadline,
		now:      time.Now,
	}
}

var requiredFields = map[domain.AssetType][]string{
	domain.AssetTypeTaxLien: {
		"certificate_number", "purchase_amount", "interest_rate",
		"sale_date", "redemption_deadline", "county",
		"property_address", "parcel_id",
	},
	domain.AssetTypeCivilJudgment: {
		"case_number", "judgment_amount", "interest_rate",
		"judgment_date", "debtor_name",
	},
	domain.AssetTypeProbateEstate: {
		"deceased_name", "date_of_death", "case_status",
	},
	domain.AssetTypeMineralRight: {
		"legal_description", "net_mineral_acres", "royalty_decimal",
		"operator_name",
	},
	domain.AssetTypeSurplusFund: {
		"foreclosure_date", "winning_bid_amount", "total_debt_owed",
		"surplus_amount", "claim_deadline",
	},
}

// Deterministic id parts per type: prefix plus the external reference field.
var idParts = map[domain.AssetType]struct{ prefix, refField string }{
	domain.AssetTypeTaxLien:       {"lien", "certificate_number"},
	domain.AssetTypeCivilJudgment: {"judgment", "case_number"},
	domain.AssetTypeProbateEstate: {"probate", "case_number"},
	domain.AssetTypeMineralRight:  {"mineral", "parcel_id"},
	domain.AssetTypeSurplusFund:   {"surplus", "case_number"},
}

// Create validates required fields, assigns a deterministic id when the
// caller did not supply one, stamps the asset_type discriminant, and persists
// the asset. The asset's deadline is derived immediately afterwards;
// derivation failure does not fail the create (a missing optional source date
// surfaces on an explicit create_deadline call instead).
func (uc *TrackerUsecase) Create(ctx context.Context, tenantID string, assetType domain.AssetType, params domain.Record) (domain.Record, error) {
	collection, ok := domain.CollectionFor(assetType)
	if !ok {
		return nil, domain.ValidationError{Field: "asset_type", Reason: "is not a known asset type"}
	}

	for _, field := range requiredFields[assetType] {
		if !params.Has(field) {
			return nil, domain.ValidationError{Field: field}
		}
	}

	data := params.Clone()
	data[domain.FieldAssetType] = string(assetType)
	if data.Str("status") == "" {
		data["status"] = domain.StatusActive
	}
	if data.Str(domain.FieldID) == "" {
		data[domain.FieldID] = uc.assetID(assetType, data)
	}

	id, err := uc.store.Create(ctx, collection, data, tenantID)
	if err != nil {
		return nil, err
	}

	if uc.deadline != nil {
		_, _ = uc.deadline.Create(ctx, tenantID, id)
	}

	return uc.store.Get(ctx, collection, id, tenantID)
}

// Get retrieves one asset of the given type.
func (uc *TrackerUsecase) Get(ctx context.Context, tenantID string, assetType domain.AssetType, assetID string) (domain.Record, error) {
	collection, ok := domain.CollectionFor(assetType)
	if !ok {
		return nil, domain.ValidationError{Field: "asset_type", Reason: "is not a known asset type"}
	}
	return uc.store.Get(ctx, collection, assetID, tenantID)
}

// List queries the tenant's assets of the given type.
func (uc *TrackerUsecase) List(ctx context.Context, tenantID string, assetType domain.AssetType, q domain.Query) ([]domain.Record, error) {
	collection, ok := domain.CollectionFor(assetType)
	if !ok {
		return nil, domain.ValidationError{Field: "asset_type", Reason: "is not a known asset type"}
	}
	return uc.store.Query(ctx, collection, tenantID, q)
}

// Update applies a partial update. The id, tenant and type discriminant are
// immutable regardless of what the caller sends.
func (uc *TrackerUsecase) Update(ctx context.Context, tenantID string, assetType domain.AssetType, assetID string, updates domain.Record) (domain.Record, error) {
	collection, ok := domain.CollectionFor(assetType)
	if !ok {
		return nil, domain.ValidationError{Field: "asset_type", Reason: "is not a known asset type"}
	}
	if len(updates) == 0 {
		return nil, domain.ValidationError{Field: "updates", Reason: "must name at least one field"}
	}

	scrubbed := updates.Clone()
	delete(scrubbed, domain.FieldID)
	delete(scrubbed, domain.FieldAssetType)
	delete(scrubbed, domain.FieldCreatedAt)

	updated, err := uc.store.Update(ctx, collection, assetID, scrubbed, tenantID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.NotFoundError{Resource: "asset " + assetID}
	}
	return uc.store.Get(ctx, collection, assetID, tenantID)
}

// Delete removes an asset. The default is a soft delete flipping status to
// expired; hard deletes physically remove the record.
func (uc *TrackerUsecase) Delete(ctx context.Context, tenantID string, assetType domain.AssetType, assetID string, hard bool) (bool, error) {
	collection, ok := domain.CollectionFor(assetType)
	if !ok {
		return false, domain.ValidationError{Field: "asset_type", Reason: "is not a known asset type"}
	}
	if hard {
		return uc.store.Delete(ctx, collection, assetID, tenantID)
	}
	return uc.store.Update(ctx, collection, assetID,
		domain.Record{"status": domain.StatusExpired}, tenantID)
}

func (uc *TrackerUsecase) assetID(assetType domain.AssetType, data domain.Record) string {
	parts := idParts[assetType]
	ref := data.Str(parts.refField)
	if ref == "" {
		ref = uuid.NewString()
	}
	return fmt.Sprintf("%s_%s_%s", parts.prefix, ref, uc.now().UTC().Format("20060102150405"))
}
