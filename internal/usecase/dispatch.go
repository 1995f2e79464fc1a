package usecase

import (
	"context"

	"github.com/lienworks/lienos/internal/domain"
)

// Engine task names accepted by the dispatcher.
const (
	TaskCalculateInterest = "calculate_interest"
	TaskCreateDeadline    = "create_deadline"
	TaskCheckDeadlines    = "check_deadlines"
	TaskRecordPayment     = "record_payment"
	TaskVerifyPayment     = "verify_payment"
	TaskReconcileLien     = "reconcile_lien"
)

// Dispatcher routes named engine tasks to their usecases. An unrecognized
// task name fails immediately with UnknownTaskError.
type Dispatcher struct {
	valuation *ValuationUsecase
	deadline  *DeadlineUsecase
	payment   *PaymentUsecase
}

func NewDispatcher(valuation *ValuationUsecase, deadline *DeadlineUsecase, payment *PaymentUsecase) *Dispatcher {
	return &Dispatcher{
		valuation: valuation,
		deadline:  deadline,
		payment:   payment,
	}
}

// Execute runs one engine task for the tenant. assetIDs carries the target
// asset where the task needs one; params carries task-specific inputs.
func (d *Dispatcher) Execute(ctx context.Context, tenantID, task string, assetIDs []string, params domain.Record) (any, error) {
	switch task {
	case TaskCalculateInterest:
		id, err := firstID(assetIDs)
		if err != nil {
			return nil, err
		}
		valuation, err := d.valuation.CalculateInterest(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		return valuation.Fields(), nil

	case TaskCreateDeadline:
		id, err := firstID(assetIDs)
		if err != nil {
			return nil, err
		}
		deadline, err := d.deadline.Create(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		return deadline.ToRecord(), nil

	case TaskCheckDeadlines:
		return d.deadline.Check(ctx, tenantID)

	case TaskRecordPayment:
		id, err := firstID(assetIDs)
		if err != nil {
			return nil, err
		}
		if !params.Has("amount") {
			return nil, domain.ValidationError{Field: "amount"}
		}
		input := PaymentInput{Amount: params.Float("amount")}
		if t, ok := params.Date("payment_date"); ok {
			input.PaymentDate = &t
		}
		return d.payment.Record(ctx, tenantID, id, input)

	case TaskVerifyPayment:
		paymentID := params.Str("payment_id")
		if paymentID == "" {
			return nil, domain.ValidationError{Field: "payment_id"}
		}
		return d.payment.Verify(ctx, tenantID, paymentID)

	case TaskReconcileLien:
		id, err := firstID(assetIDs)
		if err != nil {
			return nil, err
		}
		return d.payment.Reconcile(ctx, tenantID, id)

	default:
		return nil, domain.UnknownTaskError{Task: task}
	}
}

func firstID(assetIDs []string) (string, error) {
	if len(assetIDs) == 0 || assetIDs[0] == "" {
		return "", domain.ValidationError{Field: "asset_ids"}
	}
	return assetIDs[0], nil
}
