package domain

// Valuation is the heterogeneous result of the valuation operation. Each
// asset kind produces a differently-shaped result; Fields exposes a flat
// JSON-safe mapping for documents and HTTP responses.
type Valuation interface {
	AssetType() AssetType
	Fields() map[string]any
}

// Valuation labels, one per asset kind.
const (
	LabelTotalOwed       = "Total Owed"
	LabelEstimatedEquity = "Estimated Equity"
	LabelMonthlyRevenue  = "Monthly Revenue Estimate"
	LabelPotentialFee    = "Potential Fee"
)

// InterestValuation is simple-interest accrual for tax liens and civil
// judgments: principal × (rate/100) × (days/365), no compounding.
type InterestValuation struct {
	Type            AssetType `json:"asset_type"`
	AssetID         string    `json:"asset_id"`
	Label           string    `json:"label"`
	Principal       float64   `json:"principal"`
	InterestRate    float64   `json:"interest_rate"`
	DaysElapsed     int       `json:"days_elapsed"`
	InterestAccrued float64   `json:"interest_accrued"`
	TotalOwed       float64   `json:"total_owed"`
	CalculationDate string    `json:"calculation_date"`
}

func (v InterestValuation) AssetType() AssetType { return v.Type }

func (v InterestValuation) Fields() map[string]any {
	return map[string]any{
		"asset_type":       string(v.Type),
		"asset_id":         v.AssetID,
		"label":            v.Label,
		"principal":        v.Principal,
		"interest_rate":    v.InterestRate,
		"days_elapsed":     float64(v.DaysElapsed),
		"interest_accrued": v.InterestAccrued,
		"total_owed":       v.TotalOwed,
		"calculation_date": v.CalculationDate,
		"value":            v.TotalOwed,
	}
}

// EquityValuation is probate equity: estimated value minus debts. It is not
// clamped; negative equity is a valid, informative output.
type EquityValuation struct {
	AssetID         string  `json:"asset_id"`
	Label           string  `json:"label"`
	EstimatedValue  float64 `json:"estimated_value"`
	MortgagesAmount float64 `json:"mortgages_amount"`
	LiensAmount     float64 `json:"liens_amount"`
	Equity          float64 `json:"value"`
}

func (v EquityValuation) AssetType() AssetType { return AssetTypeProbateEstate }

func (v EquityValuation) Fields() map[string]any {
	return map[string]any{
		"asset_type":       string(AssetTypeProbateEstate),
		"asset_id":         v.AssetID,
		"label":            v.Label,
		"estimated_value":  v.EstimatedValue,
		"mortgages_amount": v.MortgagesAmount,
		"liens_amount":     v.LiensAmount,
		"value":            v.Equity,
	}
}

// RevenueValuation is the estimated monthly royalty revenue of a mineral
// right, computed from policy constants.
type RevenueValuation struct {
	AssetID         string  `json:"asset_id"`
	Label           string  `json:"label"`
	NetMineralAcres float64 `json:"net_mineral_acres"`
	RoyaltyDecimal  float64 `json:"royalty_decimal"`
	OilPrice        float64 `json:"oil_price"`
	YieldPerAcre    float64 `json:"monthly_yield_per_acre"`
	MonthlyRevenue  float64 `json:"value"`
}

func (v RevenueValuation) AssetType() AssetType { return AssetTypeMineralRight }

func (v RevenueValuation) Fields() map[string]any {
	return map[string]any{
		"asset_type":             string(AssetTypeMineralRight),
		"asset_id":               v.AssetID,
		"label":                  v.Label,
		"net_mineral_acres":      v.NetMineralAcres,
		"royalty_decimal":        v.RoyaltyDecimal,
		"oil_price":              v.OilPrice,
		"monthly_yield_per_acre": v.YieldPerAcre,
		"value":                  v.MonthlyRevenue,
	}
}

// FeeValuation is the recovery fee obtainable on a surplus fund claim.
type FeeValuation struct {
	AssetID         string  `json:"asset_id"`
	Label           string  `json:"label"`
	SurplusAmount   float64 `json:"surplus_amount"`
	RecoveryFeeRate float64 `json:"recovery_fee_rate"`
	PotentialFee    float64 `json:"value"`
}

func (v FeeValuation) AssetType() AssetType { return AssetTypeSurplusFund }

func (v FeeValuation) Fields() map[string]any {
	return map[string]any{
		"asset_type":        string(AssetTypeSurplusFund),
		"asset_id":          v.AssetID,
		"label":             v.Label,
		"surplus_amount":    v.SurplusAmount,
		"recovery_fee_rate": v.RecoveryFeeRate,
		"value":             v.PotentialFee,
	}
}

// ValuationPolicy carries the policy constants used by valuation. These are
// configuration, not algorithmic choices.
type ValuationPolicy struct {
	OilPricePerBarrel   float64
	MonthlyYieldPerAcre float64
	RecoveryFeeRate     float64
}

// DefaultValuationPolicy returns the stock policy constants.
func DefaultValuationPolicy() ValuationPolicy {
	return ValuationPolicy{
		OilPricePerBarrel:   80,
		MonthlyYieldPerAcre: 30,
		RecoveryFeeRate:     0.30,
	}
}
