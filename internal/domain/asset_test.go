package domain

import (
	"errors"
	"testing"
)

func TestDecodeTaxLienRequiresAmount(t *testing.T) {
	_, err := DecodeTaxLien(Record{"interest_rate": 18.0})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Field != "purchase_amount" {
		t.Fatalf("expected offending field purchase_amount, got %v", err)
	}
}

func TestDecodeTaxLienDates(t *testing.T) {
	lien, err := DecodeTaxLien(Record{
		"purchase_amount":     5000.0,
		"interest_rate":       18.0,
		"sale_date":           "2024-01-15",
		"redemption_deadline": "2026-01-15",
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if lien.SaleDate == nil || lien.SaleDate.Format(DateOnly) != "2024-01-15" {
		t.Fatalf("sale date not parsed: %v", lien.SaleDate)
	}
	if lien.PurchaseDate != nil {
		t.Fatalf("absent purchase date should be nil")
	}
}

func TestDecodeProbateEstateDefaultsDebtsToZero(t *testing.T) {
	estate, err := DecodeProbateEstate(Record{"estimated_value": 100000.0})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !estate.MortgagesAmount.IsZero() || !estate.LiensAmount.IsZero() {
		t.Fatalf("expected zero debts, got %v / %v", estate.MortgagesAmount, estate.LiensAmount)
	}
}

func TestParseAssetType(t *testing.T) {
	if _, ok := ParseAssetType("mineral_right"); !ok {
		t.Fatalf("mineral_right should parse")
	}
	if _, ok := ParseAssetType("bitcoin"); ok {
		t.Fatalf("bitcoin should not parse")
	}
}

func TestProbeOrderIsLiensFirst(t *testing.T) {
	if ProbeOrder[0] != CollectionLiens || ProbeOrder[1] != CollectionJudgments {
		t.Fatalf("probe order must start liens, judgments: %v", ProbeOrder)
	}
}

func TestDeadlineRoundTrip(t *testing.T) {
	rec := Record{
		"id":                "lien1_redemption",
		"asset_id":          "lien1",
		"deadline_type":     DeadlineRedemption,
		"deadline_date":     "2026-03-01",
		"description":       "Redemption deadline for 123 Main",
		"alert_days_before": []any{90.0, 30.0},
		"alerts_sent":       []any{"2026-01-30"},
		"is_completed":      false,
	}
	d, err := DecodeDeadline(rec)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(d.AlertDaysBefore) != 2 || d.AlertDaysBefore[0] != 90 {
		t.Fatalf("offsets not decoded: %v", d.AlertDaysBefore)
	}
	if !d.AlertSentOn("2026-01-30") || d.AlertSentOn("2026-02-01") {
		t.Fatalf("alert history wrong: %v", d.AlertsSent)
	}
	back := d.ToRecord()
	if back.Str("deadline_date") != "2026-03-01" {
		t.Fatalf("round trip lost date: %v", back)
	}
}
