package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/shared/money"
	"bookingengine/internal/domain/units"
)

// InvalidRangeError is returned when check-out is not after check-in.
type InvalidRangeError struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("pricing: check-out %s must be after check-in %s",
		e.CheckOut.Format(time.DateOnly), e.CheckIn.Format(time.DateOnly))
}

func (e *InvalidRangeError) Unwrap() error {
	return daterange.ErrInvalidRange
}

type LineKind string

const (
	LineDiscount LineKind = "discount"
	LineFee      LineKind = "fee"
	LineTax      LineKind = "tax"
)

const (
	LineLengthOfStay = "length_of_stay"
	LineUnitDiscount = "unit_discount"
	LineServiceFee   = "service_fee"
	LineCleaningFee  = "cleaning_fee"
	LineVAT          = "vat"
)

type LineItem struct {
	Kind   LineKind
	Name   string
	Amount decimal.Decimal
}

// NightlyCharge is one entry of the per-night breakdown.
type NightlyCharge struct {
	Date   time.Time
	Amount decimal.Decimal
	Reason string
}

// Quote is the full price of a stay. Amounts are kept at full precision;
// use Round at the output boundary.
type Quote struct {
	UnitID      units.UnitID
	Range       daterange.DateRange
	Nights      int
	BaseAmount  decimal.Decimal
	Discounts   decimal.Decimal
	Fees        decimal.Decimal
	Taxes       decimal.Decimal
	TotalAmount decimal.Decimal
	Lines       []LineItem
	Breakdown   []NightlyCharge
}

// CalculateStay prices [checkIn, checkOut) with the default policy.
func CalculateStay(unit units.Unit, rules []PricingRule, checkIn, checkOut time.Time) (Quote, error) {
	return DefaultPolicy().CalculateStay(unit, rules, checkIn, checkOut)
}

// CalculateStay walks every night through ResolveNightlyPrice, then applies
// discounts, fees and VAT in that order. Discounts and fees are both taken on
// the base amount; VAT is taken on base + fees - discounts.
func (p Policy) CalculateStay(unit units.Unit, rules []PricingRule, checkIn, checkOut time.Time) (Quote, error) {
	start, end := daterange.Day(checkIn), daterange.Day(checkOut)
	if !end.After(start) {
		return Quote{}, &InvalidRangeError{CheckIn: start, CheckOut: end}
	}
	stay := daterange.DateRange{CheckIn: start, CheckOut: end}

	q := Quote{UnitID: unit.ID, Range: stay, BaseAmount: decimal.Zero}
	for _, d := range stay.Dates() {
		night := ResolveNightlyPrice(unit, rules, d)
		q.Breakdown = append(q.Breakdown, NightlyCharge{Date: d, Amount: night.Amount, Reason: night.Reason})
		q.BaseAmount = q.BaseAmount.Add(night.Amount)
	}
	q.Nights = len(q.Breakdown)

	lengthDiscount := money.Percent(q.BaseAmount, p.lengthDiscountRate(q.Nights))
	unitDiscount := decimal.Zero
	if unit.DiscountPercentage.Sign() > 0 {
		unitDiscount = money.Percent(q.BaseAmount, unit.DiscountPercentage)
	}
	q.Discounts = lengthDiscount.Add(unitDiscount)

	serviceFee := money.Percent(q.BaseAmount, p.ServiceFeeRate)
	cleaningFee := unit.Features.DecimalOrZero(p.CleaningFeeKey)
	q.Fees = serviceFee.Add(cleaningFee)

	taxable := q.BaseAmount.Add(q.Fees).Sub(q.Discounts)
	q.Taxes = money.Percent(taxable, p.VATRate)

	q.TotalAmount = q.BaseAmount.Add(q.Fees).Add(q.Taxes).Sub(q.Discounts)

	if !lengthDiscount.IsZero() {
		q.Lines = append(q.Lines, LineItem{Kind: LineDiscount, Name: LineLengthOfStay, Amount: lengthDiscount})
	}
	if !unitDiscount.IsZero() {
		q.Lines = append(q.Lines, LineItem{Kind: LineDiscount, Name: LineUnitDiscount, Amount: unitDiscount})
	}
	q.Lines = append(q.Lines, LineItem{Kind: LineFee, Name: LineServiceFee, Amount: serviceFee})
	if !cleaningFee.IsZero() {
		q.Lines = append(q.Lines, LineItem{Kind: LineFee, Name: LineCleaningFee, Amount: cleaningFee})
	}
	q.Lines = append(q.Lines, LineItem{Kind: LineTax, Name: LineVAT, Amount: q.Taxes})
	return q, nil
}

// Round returns a copy with every amount rounded to places.
func (q Quote) Round(places int32) Quote {
	out := q
	out.BaseAmount = money.Round(q.BaseAmount, places)
	out.Discounts = money.Round(q.Discounts, places)
	out.Fees = money.Round(q.Fees, places)
	out.Taxes = money.Round(q.Taxes, places)
	out.TotalAmount = money.Round(q.TotalAmount, places)
	out.Lines = make([]LineItem, len(q.Lines))
	for i, line := range q.Lines {
		line.Amount = money.Round(line.Amount, places)
		out.Lines[i] = line
	}
	out.Breakdown = make([]NightlyCharge, len(q.Breakdown))
	for i, night := range q.Breakdown {
		night.Amount = money.Round(night.Amount, places)
		out.Breakdown[i] = night
	}
	return out
}

// LinesOf returns the line items of one kind.
func (q Quote) LinesOf(kind LineKind) []LineItem {
	var out []LineItem
	for _, line := range q.Lines {
		if line.Kind == kind {
			out = append(out, line)
		}
	}
	return out
}
