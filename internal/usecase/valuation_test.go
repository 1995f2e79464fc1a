package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/infra/repository"
)

func fixedClock(day string) func() time.Time {
	t, err := time.Parse(domain.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newValuationFixture(day string) (*ValuationUsecase, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	clock := fixedClock(day)
	store.SetClock(clock)
	uc := NewValuationUsecase(store, nil, domain.DefaultValuationPolicy())
	uc.now = clock
	return uc, store
}

func TestCalculateInterestTaxLien(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, err := store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
		"purchase_date":   "2023-01-01",
	}, "tenant-a")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "lien_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}

	iv, ok := valuation.(domain.InterestValuation)
	if !ok {
		t.Fatalf("expected InterestValuation, got %T", valuation)
	}
	if iv.Label != domain.LabelTotalOwed {
		t.Errorf("label: got %q", iv.Label)
	}
	if iv.DaysElapsed != 365 {
		t.Errorf("days elapsed: got %d, want 365", iv.DaysElapsed)
	}
	if iv.InterestAccrued != 900 {
		t.Errorf("interest: got %v, want 900", iv.InterestAccrued)
	}
	if iv.TotalOwed != 5900 {
		t.Errorf("total owed: got %v, want 5900", iv.TotalOwed)
	}

	// The calculation is persisted for the audit trail.
	calc, err := store.Get(ctx, domain.CollectionCalculations, "lien_1_2024-01-01", "tenant-a")
	if err != nil {
		t.Fatalf("calculation record missing: %v", err)
	}
	if calc.Float("total_owed") != 5900 {
		t.Errorf("persisted total owed: got %v", calc.Float("total_owed"))
	}
}

func TestCalculateInterestPrefersPurchaseDate(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
		"sale_date":       "2020-01-01",
		"purchase_date":   "2023-01-01",
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "lien_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	if got := valuation.(domain.InterestValuation).DaysElapsed; got != 365 {
		t.Errorf("accrual must start at purchase_date: got %d days", got)
	}
}

func TestCalculateInterestFutureStartClampsToZero(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
		"purchase_date":   "2024-06-01",
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "lien_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	iv := valuation.(domain.InterestValuation)
	if iv.DaysElapsed != 0 || iv.InterestAccrued != 0 {
		t.Errorf("future start must clamp: got %d days, %v interest", iv.DaysElapsed, iv.InterestAccrued)
	}
	if iv.TotalOwed != 5000 {
		t.Errorf("total owed: got %v, want principal only", iv.TotalOwed)
	}
}

func TestCalculateInterestCivilJudgment(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionJudgments, domain.Record{
		"id":              "judgment_1",
		"judgment_amount": 5000.0,
		"interest_rate":   18.0,
		"judgment_date":   "2023-01-01",
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "judgment_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	iv := valuation.(domain.InterestValuation)
	if iv.AssetType() != domain.AssetTypeCivilJudgment {
		t.Errorf("asset type: got %s", iv.AssetType())
	}
	if iv.TotalOwed != 5900 {
		t.Errorf("total owed: got %v, want 5900", iv.TotalOwed)
	}
}

func TestCalculateInterestProbateEquity(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionProbateEstates, domain.Record{
		"id":               "probate_1",
		"estimated_value":  100000.0,
		"mortgages_amount": 50000.0,
		"liens_amount":     10000.0,
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "probate_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	ev := valuation.(domain.EquityValuation)
	if ev.Label != domain.LabelEstimatedEquity {
		t.Errorf("label: got %q", ev.Label)
	}
	if ev.Equity != 40000 {
		t.Errorf("equity: got %v, want 40000", ev.Equity)
	}
}

func TestCalculateInterestNegativeEquityNotClamped(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionProbateEstates, domain.Record{
		"id":               "probate_1",
		"estimated_value":  50000.0,
		"mortgages_amount": 60000.0,
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "probate_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	if got := valuation.(domain.EquityValuation).Equity; got != -10000 {
		t.Errorf("equity: got %v, want -10000", got)
	}
}

func TestCalculateInterestMineralRevenue(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionMinerals, domain.Record{
		"id":                "mineral_1",
		"net_mineral_acres": 10.0,
		"royalty_decimal":   0.125,
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "mineral_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	rv := valuation.(domain.RevenueValuation)
	if rv.Label != domain.LabelMonthlyRevenue {
		t.Errorf("label: got %q", rv.Label)
	}
	// 10 acres × 0.125 royalty × $80/bbl × 30 bbl/acre/month
	if rv.MonthlyRevenue != 3000 {
		t.Errorf("monthly revenue: got %v, want 3000", rv.MonthlyRevenue)
	}
}

func TestCalculateInterestSurplusFee(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionSurplusFunds, domain.Record{
		"id":             "surplus_1",
		"surplus_amount": 10000.0,
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "surplus_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	fv := valuation.(domain.FeeValuation)
	if fv.Label != domain.LabelPotentialFee {
		t.Errorf("label: got %q", fv.Label)
	}
	if fv.PotentialFee != 3000 {
		t.Errorf("potential fee: got %v, want 3000", fv.PotentialFee)
	}
}

func TestCalculateInterestUnknownAsset(t *testing.T) {
	uc, _ := newValuationFixture("2024-01-01")

	_, err := uc.CalculateInterest(context.Background(), "tenant-a", "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCalculateInterestCrossTenantInvisible(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
	}, "tenant-a")

	_, err := uc.CalculateInterest(ctx, "tenant-b", "lien_1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for other tenant, got %v", err)
	}
}

func TestCalculateInterestCollisionResolvesByProbeOrder(t *testing.T) {
	uc, store := newValuationFixture("2024-01-01")
	ctx := context.Background()

	// Same id in both collections, neither with a type discriminant. The
	// liens collection is probed first and wins.
	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "shared_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
	}, "tenant-a")
	_, _ = store.Create(ctx, domain.CollectionJudgments, domain.Record{
		"id":              "shared_1",
		"judgment_amount": 99999.0,
		"interest_rate":   5.0,
	}, "tenant-a")

	valuation, err := uc.CalculateInterest(ctx, "tenant-a", "shared_1")
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	if valuation.AssetType() != domain.AssetTypeTaxLien {
		t.Fatalf("collision must resolve to the lien, got %s", valuation.AssetType())
	}
}

type stubCache struct {
	entries map[string]map[string]any
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]map[string]any)}
}

func (c *stubCache) Get(ctx context.Context, key string) (map[string]any, bool) {
	fields, ok := c.entries[key]
	return fields, ok
}

func (c *stubCache) Set(ctx context.Context, key string, fields map[string]any) {
	c.entries[key] = fields
}

func (c *stubCache) Delete(ctx context.Context, key string) {
	c.deleted = append(c.deleted, key)
	delete(c.entries, key)
}

func TestCalculateInterestUsesCache(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := fixedClock("2024-01-01")
	store.SetClock(clock)
	cache := newStubCache()
	uc := NewValuationUsecase(store, cache, domain.DefaultValuationPolicy())
	uc.now = clock
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
		"purchase_date":   "2023-01-01",
	}, "tenant-a")

	first, err := uc.CalculateInterest(ctx, "tenant-a", "lien_1")
	if err != nil {
		t.Fatalf("first valuation failed: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("result must be cached, got %d entries", len(cache.entries))
	}

	// A second call is served from the cache even after the record changes.
	_, _ = store.Update(ctx, domain.CollectionLiens, "lien_1",
		domain.Record{"purchase_amount": 1.0}, "tenant-a")

	second, err := uc.CalculateInterest(ctx, "tenant-a", "lien_1")
	if err != nil {
		t.Fatalf("second valuation failed: %v", err)
	}
	if second.Fields()["total_owed"] != first.Fields()["total_owed"] {
		t.Errorf("cached result must be returned: %v vs %v",
			second.Fields()["total_owed"], first.Fields()["total_owed"])
	}

	uc.Invalidate(ctx, "tenant-a", "lien_1")
	if len(cache.deleted) != 1 {
		t.Errorf("invalidate must drop the cached entry")
	}
}
