package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lienworks/lienos/internal/domain"
)

func TestMemoryStoreTenantIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, "liens", domain.Record{"purchase_amount": 100.0}, "tenant-a")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := store.Get(ctx, "liens", id, "tenant-a"); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	_, errB := store.Get(ctx, "liens", id, "tenant-b")
	if !errors.Is(errB, domain.ErrNotFound) {
		t.Fatalf("cross-tenant read must be not found, got %v", errB)
	}

	_, errMissing := store.Get(ctx, "liens", "no-such-id", "tenant-b")
	if errB.Error() != errMissing.Error() {
		t.Fatalf("cross-tenant and missing must be indistinguishable: %q vs %q", errB, errMissing)
	}

	records, err := store.Query(ctx, "liens", "tenant-b", domain.Query{})
	if err != nil || len(records) != 0 {
		t.Fatalf("cross-tenant query must be empty, got %v %v", records, err)
	}
}

func TestMemoryStoreUpdateNeverChangesTenant(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, "liens", domain.Record{"status": "active"}, "tenant-a")

	ok, err := store.Update(ctx, "liens", id, domain.Record{
		"status":    "redeemed",
		"tenant_id": "tenant-b",
	}, "tenant-a")
	if err != nil || !ok {
		t.Fatalf("update failed: %v %v", ok, err)
	}

	rec, err := store.Get(ctx, "liens", id, "tenant-a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Str("tenant_id") != "tenant-a" {
		t.Fatalf("tenant_id must be immutable, got %s", rec.Str("tenant_id"))
	}
	if rec.Str("status") != "redeemed" {
		t.Fatalf("named field should have changed, got %s", rec.Str("status"))
	}
}

func TestMemoryStoreCrossTenantUpdateReportsFalse(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, "liens", domain.Record{"status": "active"}, "tenant-a")

	ok, err := store.Update(ctx, "liens", id, domain.Record{"status": "redeemed"}, "tenant-b")
	if err != nil {
		t.Fatalf("unauthorized update must not error: %v", err)
	}
	if ok {
		t.Fatalf("unauthorized update must report false")
	}

	rec, _ := store.Get(ctx, "liens", id, "tenant-a")
	if rec.Str("status") != "active" {
		t.Fatalf("unauthorized update must not change state, got %s", rec.Str("status"))
	}
}

func TestMemoryStoreHonorsSuppliedID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, "liens", domain.Record{"id": "lien_CERT1_20260101"}, "tenant-a")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id != "lien_CERT1_20260101" {
		t.Fatalf("supplied id must be honored, got %s", id)
	}

	rec, _ := store.Get(ctx, "liens", id, "tenant-a")
	if rec.Str("created_at") == "" || rec.Str("updated_at") == "" {
		t.Fatalf("timestamps must be stamped: %v", rec)
	}
}

func TestMemoryStoreDeleteAuthorizes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, "liens", domain.Record{}, "tenant-a")

	ok, err := store.Delete(ctx, "liens", id, "tenant-b")
	if err != nil || ok {
		t.Fatalf("cross-tenant delete must report false, got %v %v", ok, err)
	}

	ok, err = store.Delete(ctx, "liens", id, "tenant-a")
	if err != nil || !ok {
		t.Fatalf("owner delete failed: %v %v", ok, err)
	}

	if _, err := store.Get(ctx, "liens", id, "tenant-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
}

func TestMemoryStoreQueryFilterSortLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, rec := range []domain.Record{
		{"id": "l1", "county": "Lee", "purchase_amount": 100.0},
		{"id": "l2", "county": "Lee", "purchase_amount": 300.0},
		{"id": "l3", "county": "Polk", "purchase_amount": 200.0},
	} {
		if _, err := store.Create(ctx, "liens", rec, "tenant-a"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	records, err := store.Query(ctx, "liens", "tenant-a", domain.Query{
		Filters: []domain.Filter{{Field: "county", Op: domain.OpEq, Value: "Lee"}},
		OrderBy: "-purchase_amount",
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 1 || records[0].Str("id") != "l2" {
		t.Fatalf("expected l2 only, got %v", records)
	}
}
