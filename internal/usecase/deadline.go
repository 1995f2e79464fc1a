package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lienworks/lienos/internal/domain"
)

// DeadlineUsecase derives legal deadlines from assets and scans them for
// approaching alert thresholds.
type DeadlineUsecase struct {
	store    Store
	resolver *assetResolver
	signal   Publisher
	offsets  []int
	now      func() time.Time
}

func NewDeadlineUsecase(store Store, signal Publisher, offsets []int) *DeadlineUsecase {
	if len(offsets) == 0 {
		offsets = domain.DefaultAlertOffsets
	}
	return &DeadlineUsecase{
		store:    store,
		resolver: newAssetResolver(store),
		signal:   signal,
		offsets:  offsets,
		now:      time.Now,
	}
}

// CheckResult summarizes one deadline scan.
type CheckResult struct {
	DeadlinesChecked int    `json:"deadlines_checked"`
	AlertsSent       int    `json:"alerts_sent"`
	CheckDate        string `json:"check_date"`
}

// Create derives the deadline for an asset from its type-specific source
// date. A missing source date is a data-quality bug and fails with a
// ValidationError naming the field; it is never defaulted.
func (uc *DeadlineUsecase) Create(ctx context.Context, tenantID, assetID string) (domain.Deadline, error) {
	assetType, rec, err := uc.resolver.Resolve(ctx, tenantID, assetID)
	if err != nil {
		return domain.Deadline{}, err
	}

	var (
		date        time.Time
		tag         string
		description string
	)

	switch assetType {
	case domain.AssetTypeCivilJudgment:
		d, ok := rec.Date("statute_limitations_date")
		if !ok {
			return domain.Deadline{}, domain.ValidationError{Field: "statute_limitations_date"}
		}
		date, tag = d, domain.DeadlineExpiration
		description = "Judgment Expiration / Renewal Deadline"

	case domain.AssetTypeProbateEstate:
		filed, ok := rec.Date("probate_filing_date")
		if !ok {
			return domain.Deadline{}, domain.ValidationError{Field: "probate_filing_date"}
		}
		// Creditor claim period: filing date plus 180 days.
		date, tag = filed.AddDate(0, 0, 180), domain.DeadlineClaimPeriod
		description = "Creditor Claim Period Ends"

	case domain.AssetTypeMineralRight:
		d, ok := rec.Date("lease_expiration_date")
		if !ok {
			return domain.Deadline{}, domain.ValidationError{Field: "lease_expiration_date"}
		}
		date, tag = d, domain.DeadlineLeaseExpiration
		description = "Primary Term Expiration"

	case domain.AssetTypeSurplusFund:
		d, ok := rec.Date("claim_deadline")
		if !ok {
			return domain.Deadline{}, domain.ValidationError{Field: "claim_deadline"}
		}
		date, tag = d, domain.DeadlineEscheatment
		description = "Escheatment Deadline"

	default: // tax lien
		d, ok := rec.Date("redemption_deadline")
		if !ok {
			return domain.Deadline{}, domain.ValidationError{Field: "redemption_deadline"}
		}
		date, tag = d, domain.DeadlineRedemption
		address := rec.Str("property_address")
		if address == "" {
			address = "Unknown Property"
		}
		description = fmt.Sprintf("Redemption deadline for %s", address)
	}

	deadline := domain.Deadline{
		ID:              fmt.Sprintf("%s_%s", assetID, tag),
		AssetID:         assetID,
		TenantID:        tenantID,
		Type:            tag,
		Date:            date,
		Description:     description,
		AlertDaysBefore: uc.offsets,
		AlertsSent:      []string{},
	}

	if _, err := uc.store.Create(ctx, domain.CollectionDeadlines, deadline.ToRecord(), tenantID); err != nil {
		return domain.Deadline{}, err
	}
	return deadline, nil
}

// Check scans every incomplete deadline of the tenant and fires at most one
// alert per deadline per day. The alerts-sent history is the guard against
// double-fire on reruns within the same day.
func (uc *DeadlineUsecase) Check(ctx context.Context, tenantID string) (CheckResult, error) {
	records, err := uc.store.Query(ctx, domain.CollectionDeadlines, tenantID, domain.Query{
		Filters: []domain.Filter{{Field: "is_completed", Op: domain.OpEq, Value: false}},
	})
	if err != nil {
		return CheckResult{}, err
	}

	today := uc.now().UTC().Truncate(24 * time.Hour)
	todayStr := today.Format(domain.DateOnly)
	result := CheckResult{CheckDate: todayStr}

	for _, rec := range records {
		result.DeadlinesChecked++

		deadline, err := domain.DecodeDeadline(rec)
		if err != nil {
			continue
		}

		daysUntil := int(deadline.Date.Sub(today).Hours() / 24)

		shouldAlert := false
		for _, offset := range deadline.AlertDaysBefore {
			if daysUntil == offset && !deadline.AlertSentOn(todayStr) {
				shouldAlert = true
				break
			}
		}
		if !shouldAlert {
			continue
		}

		priority := domain.PriorityNormal
		if daysUntil <= 7 {
			priority = domain.PriorityHigh
		}

		notification := domain.Notification{
			ID:             fmt.Sprintf("alert_%s_%s", deadline.ID, todayStr),
			AssetID:        deadline.AssetID,
			TenantID:       tenantID,
			Type:           domain.NotificationDeadlineApproaching,
			Title:          fmt.Sprintf("Deadline Alert: %d days remaining", daysUntil),
			Message:        fmt.Sprintf("%s - Due on %s", deadline.Description, deadline.Date.Format(domain.DateOnly)),
			Priority:       priority,
			Channels:       []string{"email"},
			ActionRequired: true,
		}
		if _, err := uc.store.Create(ctx, domain.CollectionNotifications, notification.ToRecord(), tenantID); err != nil {
			continue
		}

		sent := append(deadline.AlertsSent, todayStr)
		sentField := make([]any, len(sent))
		for i, s := range sent {
			sentField[i] = s
		}
		if _, err := uc.store.Update(ctx, domain.CollectionDeadlines, deadline.ID,
			domain.Record{"alerts_sent": sentField}, tenantID); err != nil {
			continue
		}

		result.AlertsSent++

		if uc.signal != nil {
			_ = uc.signal.Publish(ctx, "alerts:"+tenantID, domain.Event{
				Type:      domain.NotificationDeadlineApproaching,
				TenantID:  tenantID,
				AssetID:   deadline.AssetID,
				Payload:   notification.ToRecord(),
				Timestamp: uc.now().UTC(),
			})
		}
	}

	return result, nil
}

// Complete marks a deadline as done so future scans skip it.
func (uc *DeadlineUsecase) Complete(ctx context.Context, tenantID, deadlineID string) (bool, error) {
	return uc.store.Update(ctx, domain.CollectionDeadlines, deadlineID,
		domain.Record{"is_completed": true}, tenantID)
}

// List returns the tenant's deadlines ordered by date.
func (uc *DeadlineUsecase) List(ctx context.Context, tenantID string, includeCompleted bool) ([]domain.Deadline, error) {
	q := domain.Query{OrderBy: "deadline_date"}
	if !includeCompleted {
		q.Filters = []domain.Filter{{Field: "is_completed", Op: domain.OpEq, Value: false}}
	}
	records, err := uc.store.Query(ctx, domain.CollectionDeadlines, tenantID, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Deadline, 0, len(records))
	for _, rec := range records {
		d, err := domain.DecodeDeadline(rec)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
