package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lienworks/lienos/internal/domain"
)

// ValuationUsecase computes per-type valuations: simple interest for liens
// and judgments, equity for probate estates, estimated royalty revenue for
// mineral rights, and recovery fees for surplus funds.
type ValuationUsecase struct {
	store    Store
	resolver *assetResolver
	cache    ValuationCache
	policy   domain.ValuationPolicy
	now      func() time.Time
}

func NewValuationUsecase(store Store, cache ValuationCache, policy domain.ValuationPolicy) *ValuationUsecase {
	return &ValuationUsecase{
		store:    store,
		resolver: newAssetResolver(store),
		cache:    cache,
		policy:   policy,
		now:      time.Now,
	}
}

// cachedValuation is a valuation rehydrated from the cache. The original
// shape is preserved as a flat field map.
type cachedValuation struct {
	typ    domain.AssetType
	fields map[string]any
}

func (c cachedValuation) AssetType() domain.AssetType { return c.typ }
func (c cachedValuation) Fields() map[string]any      { return c.fields }

// CalculateInterest resolves the asset's type and applies the type-specific
// valuation rule. Results are heterogeneous; see domain.Valuation.
func (uc *ValuationUsecase) CalculateInterest(ctx context.Context, tenantID, assetID string) (domain.Valuation, error) {
	today := uc.today()
	key := uc.cacheKey(tenantID, assetID, today)

	if uc.cache != nil {
		if fields, ok := uc.cache.Get(ctx, key); ok {
			if t, valid := domain.ParseAssetType(asString(fields["asset_type"])); valid {
				return cachedValuation{typ: t, fields: fields}, nil
			}
		}
	}

	assetType, rec, err := uc.resolver.Resolve(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	var result domain.Valuation
	switch assetType {
	case domain.AssetTypeTaxLien:
		lien, err := domain.DecodeTaxLien(rec)
		if err != nil {
			return nil, err
		}
		result = uc.accrueInterest(ctx, tenantID, assetID, assetType,
			lien.PurchaseAmount, lien.InterestRate, firstDate(lien.PurchaseDate, lien.SaleDate), today)

	case domain.AssetTypeCivilJudgment:
		judgment, err := domain.DecodeCivilJudgment(rec)
		if err != nil {
			return nil, err
		}
		result = uc.accrueInterest(ctx, tenantID, assetID, assetType,
			judgment.JudgmentAmount, judgment.InterestRate, judgment.JudgmentDate, today)

	case domain.AssetTypeProbateEstate:
		estate, err := domain.DecodeProbateEstate(rec)
		if err != nil {
			return nil, err
		}
		equity := estate.EstimatedValue.Sub(estate.MortgagesAmount.Add(estate.LiensAmount))
		result = domain.EquityValuation{
			AssetID:         assetID,
			Label:           domain.LabelEstimatedEquity,
			EstimatedValue:  toF(estate.EstimatedValue),
			MortgagesAmount: toF(estate.MortgagesAmount),
			LiensAmount:     toF(estate.LiensAmount),
			Equity:          toF(equity),
		}

	case domain.AssetTypeMineralRight:
		mineral, err := domain.DecodeMineralRight(rec)
		if err != nil {
			return nil, err
		}
		revenue := mineral.NetMineralAcres.
			Mul(mineral.RoyaltyDecimal).
			Mul(decimal.NewFromFloat(uc.policy.OilPricePerBarrel)).
			Mul(decimal.NewFromFloat(uc.policy.MonthlyYieldPerAcre))
		result = domain.RevenueValuation{
			AssetID:         assetID,
			Label:           domain.LabelMonthlyRevenue,
			NetMineralAcres: toF(mineral.NetMineralAcres),
			RoyaltyDecimal:  toF(mineral.RoyaltyDecimal),
			OilPrice:        uc.policy.OilPricePerBarrel,
			YieldPerAcre:    uc.policy.MonthlyYieldPerAcre,
			MonthlyRevenue:  toF(revenue),
		}

	case domain.AssetTypeSurplusFund:
		surplus, err := domain.DecodeSurplusFund(rec)
		if err != nil {
			return nil, err
		}
		fee := surplus.SurplusAmount.Mul(decimal.NewFromFloat(uc.policy.RecoveryFeeRate))
		result = domain.FeeValuation{
			AssetID:         assetID,
			Label:           domain.LabelPotentialFee,
			SurplusAmount:   toF(surplus.SurplusAmount),
			RecoveryFeeRate: uc.policy.RecoveryFeeRate,
			PotentialFee:    toF(fee),
		}

	default:
		return nil, domain.NotFoundError{Resource: "asset " + assetID}
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, key, result.Fields())
	}
	return result, nil
}

// accrueInterest applies the simple-interest formula
// principal × (rate/100) × (days/365). A future start date clamps elapsed
// days to zero, never producing negative interest. A calculation record is
// persisted for the audit trail.
func (uc *ValuationUsecase) accrueInterest(
	ctx context.Context,
	tenantID, assetID string,
	assetType domain.AssetType,
	principal, rate decimal.Decimal,
	start *time.Time,
	today time.Time,
) domain.Valuation {
	days := 0
	if start != nil {
		days = int(today.Sub(*start).Hours() / 24)
		if days < 0 {
			days = 0
		}
	}

	interest := principal.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(36500))
	totalOwed := principal.Add(interest)

	result := domain.InterestValuation{
		Type:            assetType,
		AssetID:         assetID,
		Label:           domain.LabelTotalOwed,
		Principal:       toF(principal),
		InterestRate:    toF(rate),
		DaysElapsed:     days,
		InterestAccrued: toF(interest),
		TotalOwed:       toF(totalOwed),
		CalculationDate: today.Format(domain.DateOnly),
	}

	calc := domain.Record{
		domain.FieldID:     fmt.Sprintf("%s_%s", assetID, result.CalculationDate),
		"asset_id":         assetID,
		"calculation_date": result.CalculationDate,
		"principal":        result.Principal,
		"interest_rate":    result.InterestRate,
		"days_elapsed":     float64(days),
		"interest_accrued": result.InterestAccrued,
		"total_owed":       result.TotalOwed,
	}
	// Audit trail only; valuation still succeeds if the write fails.
	_, _ = uc.store.Create(ctx, domain.CollectionCalculations, calc, tenantID)

	return result
}

// Invalidate drops today's cached valuation for an asset, used after writes
// that change what is owed.
func (uc *ValuationUsecase) Invalidate(ctx context.Context, tenantID, assetID string) {
	if uc.cache == nil {
		return
	}
	uc.cache.Delete(ctx, uc.cacheKey(tenantID, assetID, uc.today()))
}

func (uc *ValuationUsecase) cacheKey(tenantID, assetID string, today time.Time) string {
	return fmt.Sprintf("valuation:%s:%s:%s", tenantID, assetID, today.Format(domain.DateOnly))
}

func (uc *ValuationUsecase) today() time.Time {
	return uc.now().UTC().Truncate(24 * time.Hour)
}

func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

func toF(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
