package domain

import "time"

// Payment statuses.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment is one entry in an asset's payment ledger.
type Payment struct {
	ID          string
	AssetID     string
	TenantID    string
	Amount      float64
	PaymentDate time.Time
	Status      string
}

// ToRecord maps the payment onto its stored shape.
func (p Payment) ToRecord() Record {
	return Record{
		FieldID:        p.ID,
		"asset_id":     p.AssetID,
		"amount":       p.Amount,
		"payment_date": p.PaymentDate.Format(DateOnly),
		"status":       p.Status,
	}
}

// DecodePayment maps a stored record into a Payment.
func DecodePayment(r Record) (Payment, error) {
	if !r.Has("amount") {
		return Payment{}, ValidationError{Field: "amount"}
	}
	date, _ := r.Date("payment_date")
	return Payment{
		ID:          r.Str(FieldID),
		AssetID:     r.Str("asset_id"),
		TenantID:    r.Str(FieldTenantID),
		Amount:      r.Float("amount"),
		PaymentDate: date,
		Status:      r.Str("status"),
	}, nil
}
