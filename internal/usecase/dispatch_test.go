package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/infra/repository"
)

func newDispatchFixture(day string) (*Dispatcher, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	clock := fixedClock(day)
	store.SetClock(clock)
	valuation := NewValuationUsecase(store, nil, domain.DefaultValuationPolicy())
	valuation.now = clock
	deadline := NewDeadlineUsecase(store, nil, nil)
	deadline.now = clock
	payment := NewPaymentUsecase(store, valuation, nil)
	payment.now = clock
	return NewDispatcher(valuation, deadline, payment), store
}

func TestDispatchUnknownTask(t *testing.T) {
	d, _ := newDispatchFixture("2024-01-01")

	_, err := d.Execute(context.Background(), "tenant-a", "mine_bitcoin", nil, nil)
	if !errors.Is(err, domain.ErrUnknownTask) {
		t.Fatalf("expected unknown task error, got %v", err)
	}
	var uerr domain.UnknownTaskError
	if !errors.As(err, &uerr) || uerr.Task != "mine_bitcoin" {
		t.Fatalf("error must name the task, got %v", err)
	}
}

func TestDispatchRequiresAssetID(t *testing.T) {
	d, _ := newDispatchFixture("2024-01-01")
	ctx := context.Background()

	for _, task := range []string{TaskCalculateInterest, TaskCreateDeadline, TaskRecordPayment, TaskReconcileLien} {
		_, err := d.Execute(ctx, "tenant-a", task, nil, domain.Record{"amount": 10.0})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s without asset id: got %v", task, err)
		}
	}
}

func TestDispatchCalculateInterest(t *testing.T) {
	d, store := newDispatchFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 5000.0,
		"interest_rate":   18.0,
		"purchase_date":   "2023-01-01",
	}, "tenant-a")

	result, err := d.Execute(ctx, "tenant-a", TaskCalculateInterest, []string{"lien_1"}, nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	fields, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected field map, got %T", result)
	}
	if fields["total_owed"] != 5900.0 {
		t.Errorf("total owed: got %v", fields["total_owed"])
	}
}

func TestDispatchRecordPayment(t *testing.T) {
	d, store := newDispatchFixture("2024-01-01")
	ctx := context.Background()

	_, _ = store.Create(ctx, domain.CollectionLiens, domain.Record{
		"id":              "lien_1",
		"purchase_amount": 100.0,
		"interest_rate":   0.0,
	}, "tenant-a")

	_, err := d.Execute(ctx, "tenant-a", TaskRecordPayment, []string{"lien_1"}, domain.Record{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("payment without amount must fail, got %v", err)
	}

	result, err := d.Execute(ctx, "tenant-a", TaskRecordPayment, []string{"lien_1"},
		domain.Record{"amount": 100.0})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	payment, ok := result.(PaymentResult)
	if !ok {
		t.Fatalf("expected PaymentResult, got %T", result)
	}
	if !payment.IsFullyRedeemed {
		t.Errorf("full payment must redeem: %+v", payment)
	}
}

func TestDispatchCheckDeadlines(t *testing.T) {
	d, store := newDispatchFixture("2024-01-01")
	ctx := context.Background()

	deadline := domain.Deadline{
		ID:              "lien_1_redemption",
		AssetID:         "lien_1",
		Type:            domain.DeadlineRedemption,
		Date:            mustDate(t, "2024-01-08"),
		AlertDaysBefore: domain.DefaultAlertOffsets,
		AlertsSent:      []string{},
	}
	_, _ = store.Create(ctx, domain.CollectionDeadlines, deadline.ToRecord(), "tenant-a")

	result, err := d.Execute(ctx, "tenant-a", TaskCheckDeadlines, nil, nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	check, ok := result.(CheckResult)
	if !ok {
		t.Fatalf("expected CheckResult, got %T", result)
	}
	if check.AlertsSent != 1 {
		t.Errorf("alerts: got %+v", check)
	}
}

func TestDispatchVerifyPaymentRequiresID(t *testing.T) {
	d, _ := newDispatchFixture("2024-01-01")

	_, err := d.Execute(context.Background(), "tenant-a", TaskVerifyPayment, nil, domain.Record{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
