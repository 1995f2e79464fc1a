package domain

import "time"

// Deadline type tags, one per asset kind.
const (
	DeadlineRedemption      = "redemption"
	DeadlineExpiration      = "expiration"
	DeadlineClaimPeriod     = "claim_period"
	DeadlineLeaseExpiration = "lease_expiration"
	DeadlineEscheatment     = "escheatment"
)

// DefaultAlertOffsets are the days-before thresholds at which alerts fire.
var DefaultAlertOffsets = []int{90, 60, 30, 14, 7, 3, 1}

// Deadline tracks a legal target date for one asset, which alert offsets are
// configured, and on which dates an alert has already fired. An offset is
// never re-fired for the same date once recorded in AlertsSent.
type Deadline struct {
	ID              string
	AssetID         string
	TenantID        string
	Type            string
	Date            time.Time
	Description     string
	AlertDaysBefore []int
	AlertsSent      []string
	IsCompleted     bool
}

// ToRecord maps the deadline onto its stored shape.
func (d Deadline) ToRecord() Record {
	offsets := make([]any, len(d.AlertDaysBefore))
	for i, o := range d.AlertDaysBefore {
		offsets[i] = float64(o)
	}
	sent := make([]any, len(d.AlertsSent))
	for i, s := range d.AlertsSent {
		sent[i] = s
	}
	return Record{
		FieldID:             d.ID,
		"asset_id":          d.AssetID,
		"deadline_type":     d.Type,
		"deadline_date":     d.Date.Format(DateOnly),
		"description":       d.Description,
		"alert_days_before": offsets,
		"alerts_sent":       sent,
		"is_completed":      d.IsCompleted,
	}
}

// DecodeDeadline maps a stored record into a Deadline.
func DecodeDeadline(r Record) (Deadline, error) {
	date, ok := r.Date("deadline_date")
	if !ok {
		return Deadline{}, ValidationError{Field: "deadline_date"}
	}
	offsets := r.Ints("alert_days_before")
	if len(offsets) == 0 {
		offsets = DefaultAlertOffsets
	}
	return Deadline{
		ID:              r.Str(FieldID),
		AssetID:         r.Str("asset_id"),
		TenantID:        r.Str(FieldTenantID),
		Type:            r.Str("deadline_type"),
		Date:            date,
		Description:     r.Str("description"),
		AlertDaysBefore: offsets,
		AlertsSent:      r.Strings("alerts_sent"),
		IsCompleted:     r.Bool("is_completed"),
	}, nil
}

// AlertSentOn reports whether an alert already fired on the given date.
func (d Deadline) AlertSentOn(day string) bool {
	for _, s := range d.AlertsSent {
		if s == day {
			return true
		}
	}
	return false
}
