package usecase

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/lienworks/lienos/internal/domain"
)

// assetResolver reconstructs an asset's type from an opaque id. Records
// created by the tracker carry an asset_type discriminant; the ordered
// collection probe remains for legacy records and is what locates the record
// in the first place. An id colliding across collections resolves to the
// first probed collection.
type assetResolver struct {
	store Store
	known *cache.Cache
}

func newAssetResolver(store Store) *assetResolver {
	return &assetResolver{
		store: store,
		known: cache.New(10*time.Minute, 15*time.Minute),
	}
}

// Resolve probes collections in domain.ProbeOrder and returns the asset's
// type together with its record. Only hits on the first-probed collection are
// memoized: a memo for a later collection could mask a colliding record
// created in an earlier one, and collisions must always resolve to the first
// collection in probe order. A first-collection memo cannot be shadowed, and
// when its record is gone the full probe runs anyway.
func (r *assetResolver) Resolve(ctx context.Context, tenantID, assetID string) (domain.AssetType, domain.Record, error) {
	cacheKey := tenantID + "/" + assetID

	if hint, ok := r.known.Get(cacheKey); ok {
		collection := hint.(string)
		if rec, err := r.store.Get(ctx, collection, assetID, tenantID); err == nil {
			return typeOf(rec, collection), rec, nil
		}
		r.known.Delete(cacheKey)
	}

	for _, collection := range domain.ProbeOrder {
		rec, err := r.store.Get(ctx, collection, assetID, tenantID)
		if err != nil {
			continue
		}
		if collection == domain.ProbeOrder[0] {
			r.known.Set(cacheKey, collection, cache.DefaultExpiration)
		}
		return typeOf(rec, collection), rec, nil
	}

	return "", nil, domain.NotFoundError{Resource: "asset " + assetID}
}

// typeOf prefers the stored discriminant and falls back to the collection the
// record was found in.
func typeOf(rec domain.Record, collection string) domain.AssetType {
	if t, ok := domain.ParseAssetType(rec.Str(domain.FieldAssetType)); ok {
		return t
	}
	t, _ := domain.TypeForCollection(collection)
	return t
}
