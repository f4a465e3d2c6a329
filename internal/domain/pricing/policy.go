package pricing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPolicy = errors.New("pricing: invalid policy")

// DefaultCleaningFeeKey is the custom feature holding a literal cleaning fee.
const DefaultCleaningFeeKey = "cleaning_fee"

// Policy holds the stay-length tiers and the percentage rates applied on top
// of the nightly prices. Rates are percentages (10 means 10%).
type Policy struct {
	LongStayNights   int             `json:"long_stay_nights"`
	LongStayDiscount decimal.Decimal `json:"long_stay_discount"`
	MidStayNights    int             `json:"mid_stay_nights"`
	MidStayDiscount  decimal.Decimal `json:"mid_stay_discount"`
	ServiceFeeRate   decimal.Decimal `json:"service_fee_rate"`
	VATRate          decimal.Decimal `json:"vat_rate"`
	CleaningFeeKey   string          `json:"cleaning_fee_key"`
}

func DefaultPolicy() Policy {
	return Policy{
		LongStayNights:   7,
		LongStayDiscount: decimal.NewFromInt(10),
		MidStayNights:    3,
		MidStayDiscount:  decimal.NewFromInt(5),
		ServiceFeeRate:   decimal.NewFromInt(2),
		VATRate:          decimal.NewFromInt(5),
		CleaningFeeKey:   DefaultCleaningFeeKey,
	}
}

func (p Policy) Validate() error {
	if p.MidStayNights < 1 || p.LongStayNights < p.MidStayNights {
		return ErrInvalidPolicy
	}
	for _, rate := range []decimal.Decimal{p.LongStayDiscount, p.MidStayDiscount, p.ServiceFeeRate, p.VATRate} {
		if rate.Sign() < 0 {
			return ErrInvalidPolicy
		}
	}
	if strings.TrimSpace(p.CleaningFeeKey) == "" {
		return ErrInvalidPolicy
	}
	return nil
}

// LoadPolicy overlays a JSON document on the default policy. Empty input
// returns the defaults; malformed or invalid input is logged and ignored.
func LoadPolicy(raw string, logger *slog.Logger) Policy {
	if strings.TrimSpace(raw) == "" {
		return DefaultPolicy()
	}
	p := DefaultPolicy()
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		if logger != nil {
			logger.Warn("invalid PRICING_POLICY JSON, using defaults", "error", err)
		}
		return DefaultPolicy()
	}
	if err := p.Validate(); err != nil {
		if logger != nil {
			logger.Warn("PRICING_POLICY rejected, using defaults", "error", err)
		}
		return DefaultPolicy()
	}
	return p
}

// lengthDiscountRate picks exactly one tier: the long-stay rate when it
// applies, otherwise the mid-stay rate, otherwise nothing.
func (p Policy) lengthDiscountRate(nights int) decimal.Decimal {
	switch {
	case nights >= p.LongStayNights:
		return p.LongStayDiscount
	case nights >= p.MidStayNights:
		return p.MidStayDiscount
	default:
		return decimal.Zero
	}
}
