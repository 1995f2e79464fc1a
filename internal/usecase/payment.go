package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lienworks/lienos/internal/domain"
)

// PaymentUsecase records redemption payments against tax liens and performs
// the threshold-crossing status transition: once the completed-payment total
// reaches the recomputed total owed, the lien becomes redeemed as a side
// effect of the payment write.
type PaymentUsecase struct {
	store     Store
	valuation *ValuationUsecase
	signal    Publisher
	locks     keyMutex
	now       func() time.Time
}

func NewPaymentUsecase(store Store, valuation *ValuationUsecase, signal Publisher) *PaymentUsecase {
	return &PaymentUsecase{
		store:     store,
		valuation: valuation,
		signal:    signal,
		now:       time.Now,
	}
}

// PaymentInput is the validated input for recording a payment.
type PaymentInput struct {
	Amount      float64
	PaymentDate *time.Time
}

// PaymentResult reports the ledger state after a recorded payment.
type PaymentResult struct {
	PaymentID        string  `json:"payment_id"`
	AssetID          string  `json:"asset_id"`
	Amount           float64 `json:"amount"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOwed        float64 `json:"total_owed"`
	RemainingBalance float64 `json:"remaining_balance"`
	IsFullyRedeemed  bool    `json:"is_fully_redeemed"`
}

// Record appends a payment to the lien's ledger, sums all completed payments,
// recomputes total owed, and transitions the lien to redeemed when paid in
// full. The whole sequence is serialized per (tenant, asset).
func (uc *PaymentUsecase) Record(ctx context.Context, tenantID, assetID string, input PaymentInput) (PaymentResult, error) {
	if input.Amount <= 0 {
		return PaymentResult{}, domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	lockKey := tenantID + "/" + assetID
	uc.locks.Lock(lockKey)
	defer uc.locks.Unlock(lockKey)

	lien, err := uc.store.Get(ctx, domain.CollectionLiens, assetID, tenantID)
	if err != nil {
		return PaymentResult{}, err
	}
	if lien.Str("status") == domain.StatusRedeemed {
		return PaymentResult{}, domain.ValidationError{Field: "status", Reason: "lien is already redeemed"}
	}

	paymentDate := uc.now().UTC()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := domain.Payment{
		ID:          fmt.Sprintf("pmt_%s_%s", assetID, uc.now().UTC().Format("20060102150405")),
		AssetID:     assetID,
		TenantID:    tenantID,
		Amount:      input.Amount,
		PaymentDate: paymentDate,
		Status:      domain.PaymentCompleted,
	}
	if _, err := uc.store.Create(ctx, domain.CollectionPayments, payment.ToRecord(), tenantID); err != nil {
		return PaymentResult{}, err
	}

	totalOwed, err := uc.totalOwed(ctx, tenantID, assetID)
	if err != nil {
		return PaymentResult{}, err
	}
	totalPaid, err := uc.totalPaid(ctx, tenantID, assetID)
	if err != nil {
		return PaymentResult{}, err
	}

	fullyPaid := totalPaid.GreaterThanOrEqual(totalOwed)
	remaining := decimal.Max(decimal.Zero, totalOwed.Sub(totalPaid))

	if fullyPaid {
		if _, err := uc.store.Update(ctx, domain.CollectionLiens, assetID,
			domain.Record{"status": domain.StatusRedeemed}, tenantID); err != nil {
			return PaymentResult{}, err
		}
		uc.valuation.Invalidate(ctx, tenantID, assetID)
	}

	title := "Payment Received"
	notifType := domain.NotificationPaymentReceived
	priority := domain.PriorityNormal
	if fullyPaid {
		title = "Lien Fully Redeemed"
		notifType = domain.NotificationAssetRedeemed
		priority = domain.PriorityHigh
	}
	notification := domain.Notification{
		ID:       "notif_" + payment.ID,
		AssetID:  assetID,
		TenantID: tenantID,
		Type:     notifType,
		Title:    title,
		Message: fmt.Sprintf("Payment of $%.2f recorded for %s. Paid $%.2f of $%.2f.",
			input.Amount, lien.Str("property_address"), toF(totalPaid), toF(totalOwed)),
		Priority: priority,
		Channels: []string{"email"},
	}
	_, _ = uc.store.Create(ctx, domain.CollectionNotifications, notification.ToRecord(), tenantID)

	if uc.signal != nil {
		_ = uc.signal.Publish(ctx, "alerts:"+tenantID, domain.Event{
			Type:      notifType,
			TenantID:  tenantID,
			AssetID:   assetID,
			Payload:   notification.ToRecord(),
			Timestamp: uc.now().UTC(),
		})
	}

	return PaymentResult{
		PaymentID:        payment.ID,
		AssetID:          assetID,
		Amount:           input.Amount,
		TotalPaid:        toF(totalPaid),
		TotalOwed:        toF(totalOwed),
		RemainingBalance: toF(remaining),
		IsFullyRedeemed:  fullyPaid,
	}, nil
}

// Verify confirms a payment was properly recorded.
func (uc *PaymentUsecase) Verify(ctx context.Context, tenantID, paymentID string) (domain.Payment, error) {
	rec, err := uc.store.Get(ctx, domain.CollectionPayments, paymentID, tenantID)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.DecodePayment(rec)
}

// ReconcileResult summarizes a lien's ledger against what is owed.
type ReconcileResult struct {
	AssetID          string  `json:"asset_id"`
	PaymentCount     int     `json:"payment_count"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOwed        float64 `json:"total_owed"`
	RemainingBalance float64 `json:"remaining_balance"`
	IsFullyRedeemed  bool    `json:"is_fully_redeemed"`
}

// Reconcile recomputes the ledger without writing anything.
func (uc *PaymentUsecase) Reconcile(ctx context.Context, tenantID, assetID string) (ReconcileResult, error) {
	if _, err := uc.store.Get(ctx, domain.CollectionLiens, assetID, tenantID); err != nil {
		return ReconcileResult{}, err
	}

	totalOwed, err := uc.totalOwed(ctx, tenantID, assetID)
	if err != nil {
		return ReconcileResult{}, err
	}
	payments, err := uc.completedPayments(ctx, tenantID, assetID)
	if err != nil {
		return ReconcileResult{}, err
	}
	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(decimal.NewFromFloat(p.Float("amount")))
	}

	return ReconcileResult{
		AssetID:          assetID,
		PaymentCount:     len(payments),
		TotalPaid:        toF(totalPaid),
		TotalOwed:        toF(totalOwed),
		RemainingBalance: toF(decimal.Max(decimal.Zero, totalOwed.Sub(totalPaid))),
		IsFullyRedeemed:  totalPaid.GreaterThanOrEqual(totalOwed),
	}, nil
}

func (uc *PaymentUsecase) totalOwed(ctx context.Context, tenantID, assetID string) (decimal.Decimal, error) {
	valuation, err := uc.valuation.CalculateInterest(ctx, tenantID, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	owed, ok := valuation.Fields()["total_owed"].(float64)
	if !ok {
		return decimal.Zero, domain.ValidationError{Field: "total_owed", Reason: "not available for this asset type"}
	}
	return decimal.NewFromFloat(owed), nil
}

func (uc *PaymentUsecase) totalPaid(ctx context.Context, tenantID, assetID string) (decimal.Decimal, error) {
	payments, err := uc.completedPayments(ctx, tenantID, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(decimal.NewFromFloat(p.Float("amount")))
	}
	return total, nil
}

func (uc *PaymentUsecase) completedPayments(ctx context.Context, tenantID, assetID string) ([]domain.Record, error) {
	return uc.store.Query(ctx, domain.CollectionPayments, tenantID, domain.Query{
		Filters: []domain.Filter{
			{Field: "asset_id", Op: domain.OpEq, Value: assetID},
			{Field: "status", Op: domain.OpEq, Value: domain.PaymentCompleted},
		},
	})
}
