package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType discriminates the five trackable asset kinds. It is stored on
// every asset record at creation time under the "asset_type" field.
type AssetType string

const (
	AssetTypeTaxLien       AssetType = "tax_lien"
	AssetTypeCivilJudgment AssetType = "civil_judgment"
	AssetTypeProbateEstate AssetType = "probate_estate"
	AssetTypeMineralRight  AssetType = "mineral_right"
	AssetTypeSurplusFund   AssetType = "surplus_fund"
)

const FieldAssetType = "asset_type"

// Asset collection names.
const (
	CollectionLiens          = "liens"
	CollectionJudgments      = "judgments"
	CollectionProbateEstates = "probate_estates"
	CollectionMinerals       = "minerals"
	CollectionSurplusFunds   = "surplus_funds"
)

// Derived collections.
const (
	CollectionDeadlines     = "deadlines"
	CollectionNotifications = "notifications"
	CollectionPayments      = "payments"
	CollectionCalculations  = "interest_calculations"
)

// ProbeOrder is the fixed order in which collections are probed when
// resolving an opaque asset id. Liens come first as the legacy default; an id
// colliding across collections resolves to whichever is probed first. The
// order is load-bearing and must not change.
var ProbeOrder = []string{
	CollectionLiens,
	CollectionJudgments,
	CollectionProbateEstates,
	CollectionMinerals,
	CollectionSurplusFunds,
}

var collectionByType = map[AssetType]string{
	AssetTypeTaxLien:       CollectionLiens,
	AssetTypeCivilJudgment: CollectionJudgments,
	AssetTypeProbateEstate: CollectionProbateEstates,
	AssetTypeMineralRight:  CollectionMinerals,
	AssetTypeSurplusFund:   CollectionSurplusFunds,
}

var typeByCollection = map[string]AssetType{
	CollectionLiens:          AssetTypeTaxLien,
	CollectionJudgments:      AssetTypeCivilJudgment,
	CollectionProbateEstates: AssetTypeProbateEstate,
	CollectionMinerals:       AssetTypeMineralRight,
	CollectionSurplusFunds:   AssetTypeSurplusFund,
}

// CollectionFor returns the collection storing assets of type t.
func CollectionFor(t AssetType) (string, bool) {
	c, ok := collectionByType[t]
	return c, ok
}

// TypeForCollection returns the asset type stored in collection c.
func TypeForCollection(c string) (AssetType, bool) {
	t, ok := typeByCollection[c]
	return t, ok
}

// ParseAssetType validates an asset type string.
func ParseAssetType(s string) (AssetType, bool) {
	t := AssetType(s)
	_, ok := collectionByType[t]
	return t, ok
}

// Asset lifecycle statuses.
const (
	StatusActive     = "active"
	StatusRedeemed   = "redeemed"
	StatusExpired    = "expired"
	StatusForeclosed = "foreclosed"
)

// TaxLien is a tax lien certificate. PurchaseDate takes precedence over
// SaleDate as the interest accrual start.
type TaxLien struct {
	ID                 string
	TenantID           string
	CertificateNumber  string
	PurchaseAmount     decimal.Decimal
	InterestRate       decimal.Decimal
	SaleDate           *time.Time
	PurchaseDate       *time.Time
	RedemptionDeadline *time.Time
	Status             string
	County             string
	PropertyAddress    string
	ParcelID           string
}

// CivilJudgment is a court-awarded money judgment.
type CivilJudgment struct {
	ID                     string
	TenantID               string
	CaseNumber             string
	JudgmentAmount         decimal.Decimal
	InterestRate           decimal.Decimal
	JudgmentDate           *time.Time
	StatuteLimitationsDate *time.Time
	Status                 string
	DebtorName             string
	Court                  string
}

// ProbateEstate is an estate in probate. Debt amounts default to zero when
// absent; equity may legitimately be negative.
type ProbateEstate struct {
	ID                string
	TenantID          string
	DeceasedName      string
	EstimatedValue    decimal.Decimal
	MortgagesAmount   decimal.Decimal
	LiensAmount       decimal.Decimal
	ProbateFilingDate *time.Time
	CaseStatus        string
	Status            string
}

// MineralRight is an owned mineral interest.
type MineralRight struct {
	ID                  string
	TenantID            string
	LegalDescription    string
	NetMineralAcres     decimal.Decimal
	RoyaltyDecimal      decimal.Decimal
	OperatorName        string
	LeaseExpirationDate *time.Time
	Status              string
}

// SurplusFund is a foreclosure surplus claim.
type SurplusFund struct {
	ID            string
	TenantID      string
	SurplusAmount decimal.Decimal
	ClaimDeadline *time.Time
	Status        string
}

// DecodeTaxLien validates and maps a stored record into a TaxLien.
func DecodeTaxLien(r Record) (TaxLien, error) {
	if !r.Has("purchase_amount") {
		return TaxLien{}, ValidationError{Field: "purchase_amount"}
	}
	if !r.Has("interest_rate") {
		return TaxLien{}, ValidationError{Field: "interest_rate"}
	}
	return TaxLien{
		ID:                 r.Str(FieldID),
		TenantID:           r.Str(FieldTenantID),
		CertificateNumber:  r.Str("certificate_number"),
		PurchaseAmount:     decimal.NewFromFloat(r.Float("purchase_amount")),
		InterestRate:       decimal.NewFromFloat(r.Float("interest_rate")),
		SaleDate:           datePtr(r, "sale_date"),
		PurchaseDate:       datePtr(r, "purchase_date"),
		RedemptionDeadline: datePtr(r, "redemption_deadline"),
		Status:             r.Str("status"),
		County:             r.Str("county"),
		PropertyAddress:    r.Str("property_address"),
		ParcelID:           r.Str("parcel_id"),
	}, nil
}

// DecodeCivilJudgment validates and maps a stored record into a CivilJudgment.
func DecodeCivilJudgment(r Record) (CivilJudgment, error) {
	if !r.Has("judgment_amount") {
		return CivilJudgment{}, ValidationError{Field: "judgment_amount"}
	}
	if !r.Has("interest_rate") {
		return CivilJudgment{}, ValidationError{Field: "interest_rate"}
	}
	return CivilJudgment{
		ID:                     r.Str(FieldID),
		TenantID:               r.Str(FieldTenantID),
		CaseNumber:             r.Str("case_number"),
		JudgmentAmount:         decimal.NewFromFloat(r.Float("judgment_amount")),
		InterestRate:           decimal.NewFromFloat(r.Float("interest_rate")),
		JudgmentDate:           datePtr(r, "judgment_date"),
		StatuteLimitationsDate: datePtr(r, "statute_limitations_date"),
		Status:                 r.Str("status"),
		DebtorName:             r.Str("debtor_name"),
		Court:                  r.Str("court"),
	}, nil
}

// DecodeProbateEstate maps a stored record into a ProbateEstate.
func DecodeProbateEstate(r Record) (ProbateEstate, error) {
	return ProbateEstate{
		ID:                r.Str(FieldID),
		TenantID:          r.Str(FieldTenantID),
		DeceasedName:      r.Str("deceased_name"),
		EstimatedValue:    decimal.NewFromFloat(r.Float("estimated_value")),
		MortgagesAmount:   decimal.NewFromFloat(r.Float("mortgages_amount")),
		LiensAmount:       decimal.NewFromFloat(r.Float("liens_amount")),
		ProbateFilingDate: datePtr(r, "probate_filing_date"),
		CaseStatus:        r.Str("case_status"),
		Status:            r.Str("status"),
	}, nil
}

// DecodeMineralRight validates and maps a stored record into a MineralRight.
func DecodeMineralRight(r Record) (MineralRight, error) {
	if !r.Has("net_mineral_acres") {
		return MineralRight{}, ValidationError{Field: "net_mineral_acres"}
	}
	if !r.Has("royalty_decimal") {
		return MineralRight{}, ValidationError{Field: "royalty_decimal"}
	}
	return MineralRight{
		ID:                  r.Str(FieldID),
		TenantID:            r.Str(FieldTenantID),
		LegalDescription:    r.Str("legal_description"),
		NetMineralAcres:     decimal.NewFromFloat(r.Float("net_mineral_acres")),
		RoyaltyDecimal:      decimal.NewFromFloat(r.Float("royalty_decimal")),
		OperatorName:        r.Str("operator_name"),
		LeaseExpirationDate: datePtr(r, "lease_expiration_date"),
		Status:              r.Str("status"),
	}, nil
}

// DecodeSurplusFund validates and maps a stored record into a SurplusFund.
func DecodeSurplusFund(r Record) (SurplusFund, error) {
	if !r.Has("surplus_amount") {
		return SurplusFund{}, ValidationError{Field: "surplus_amount"}
	}
	return SurplusFund{
		ID:            r.Str(FieldID),
		TenantID:      r.Str(FieldTenantID),
		SurplusAmount: decimal.NewFromFloat(r.Float("surplus_amount")),
		ClaimDeadline: datePtr(r, "claim_deadline"),
		Status:        r.Str("status"),
	}, nil
}

func datePtr(r Record, key string) *time.Time {
	t, ok := r.Date(key)
	if !ok {
		return nil
	}
	return &t
}
