package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/usecase"
)

var tracer = otel.Tracer("docgen")

// DocumentService renders valuation reports as HTML. Rendered documents are
// cached in memcached for the rest of the day; valuations only move when the
// calendar date does.
type DocumentService struct {
	valuation *usecase.ValuationUsecase
	deadlines *usecase.DeadlineUsecase
	mc        *memcache.Client
	now       func() time.Time
}

func NewDocumentService(valuation *usecase.ValuationUsecase, deadlines *usecase.DeadlineUsecase, mc *memcache.Client) *DocumentService {
	return &DocumentService{
		valuation: valuation,
		deadlines: deadlines,
		mc:        mc,
		now:       time.Now,
	}
}

var reportTemplate = template.Must(template.New("asset-report").Parse(`<!DOCTYPE html>
<html>
<head><title>Asset Report {{.AssetID}}</title></head>
<body>
<h1>{{.Label}}</h1>
<p class="report-date">Generated {{.Date}}</p>
<table>
{{- range .Rows}}
<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- if .Deadlines}}
<h2>Deadlines</h2>
<ul>
{{- range .Deadlines}}
<li>{{.Description}} &mdash; {{.Due}}{{if .Completed}} (completed){{end}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type reportRow struct {
	Name  string
	Value string
}

type reportDeadline struct {
	Description string
	Due         string
	Completed   bool
}

type reportData struct {
	AssetID   string
	Label     string
	Date      string
	Rows      []reportRow
	Deadlines []reportDeadline
}

// AssetReport renders the valuation report for one asset.
func (s *DocumentService) AssetReport(ctx context.Context, tenantID, assetID string) (string, error) {
	ctx, span := tracer.Start(ctx, "Document.Service.AssetReport")
	defer span.End()

	date := s.now().UTC().Format(domain.DateOnly)
	cacheKey := fmt.Sprintf("doc:%x", xxh3.HashString(tenantID+"|"+assetID+"|"+date))

	if s.mc != nil {
		if item, err := s.mc.Get(cacheKey); err == nil {
			return string(item.Value), nil
		}
	}

	valuation, err := s.valuation.CalculateInterest(ctx, tenantID, assetID)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "DocumentService.AssetReport: valuation failed")
	}

	fields := valuation.Fields()
	data := reportData{
		AssetID: assetID,
		Label:   asString(fields["label"]),
		Date:    date,
	}
	for _, name := range fieldOrder(valuation.AssetType()) {
		v, ok := fields[name]
		if !ok {
			continue
		}
		data.Rows = append(data.Rows, reportRow{Name: name, Value: formatScalar(v)})
	}

	if s.deadlines != nil {
		all, err := s.deadlines.List(ctx, tenantID, true)
		if err == nil {
			for _, d := range all {
				if d.AssetID != assetID {
					continue
				}
				data.Deadlines = append(data.Deadlines, reportDeadline{
					Description: d.Description,
					Due:         d.Date.Format(domain.DateOnly),
					Completed:   d.IsCompleted,
				})
			}
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "DocumentService.AssetReport: render failed")
	}
	html := buf.String()

	if s.mc != nil {
		_ = s.mc.Set(&memcache.Item{
			Key:        cacheKey,
			Value:      []byte(html),
			Expiration: int32((24 * time.Hour).Seconds()),
		})
	}

	return html, nil
}

// fieldOrder fixes row ordering per asset kind; field maps iterate randomly.
func fieldOrder(t domain.AssetType) []string {
	switch t {
	case domain.AssetTypeTaxLien, domain.AssetTypeCivilJudgment:
		return []string{"principal", "interest_rate", "days_elapsed", "interest_accrued", "total_owed"}
	case domain.AssetTypeProbateEstate:
		return []string{"estimated_value", "mortgages_amount", "liens_amount", "value"}
	case domain.AssetTypeMineralRight:
		return []string{"net_mineral_acres", "royalty_decimal", "oil_price", "monthly_yield_per_acre", "value"}
	case domain.AssetTypeSurplusFund:
		return []string{"surplus_amount", "recovery_fee_rate", "value"}
	}
	return nil
}

func formatScalar(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", n)
	case string:
		return n
	}
	return fmt.Sprintf("%v", v)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
