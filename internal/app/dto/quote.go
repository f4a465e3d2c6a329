package dto

import (
	"time"

	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/money"
)

// DefaultRoundingPlaces is used when the caller does not configure rounding.
const DefaultRoundingPlaces int32 = 2

type QuoteLine struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type NightlyCharge struct {
	Date   time.Time `json:"date"`
	Amount string    `json:"amount"`
	Reason string    `json:"reason"`
}

// Quote is a priced stay with every amount rendered as a fixed-point string.
type Quote struct {
	UnitID      string          `json:"unit_id"`
	CheckIn     time.Time       `json:"check_in"`
	CheckOut    time.Time       `json:"check_out"`
	Nights      int             `json:"nights"`
	Guests      int             `json:"guests"`
	BaseAmount  string          `json:"base_amount"`
	Discounts   string          `json:"discounts"`
	Fees        string          `json:"fees"`
	Taxes       string          `json:"taxes"`
	TotalAmount string          `json:"total_amount"`
	Lines       []QuoteLine     `json:"lines"`
	Breakdown   []NightlyCharge `json:"breakdown"`
}

// MapQuote rounds q to places and renders it. This is the only place where
// quote amounts lose precision.
func MapQuote(q domainpricing.Quote, guests int, places int32) Quote {
	if places < 0 {
		places = DefaultRoundingPlaces
	}
	r := q.Round(places)
	out := Quote{
		UnitID:      string(r.UnitID),
		CheckIn:     r.Range.CheckIn,
		CheckOut:    r.Range.CheckOut,
		Nights:      r.Nights,
		Guests:      guests,
		BaseAmount:  money.Format(r.BaseAmount, places),
		Discounts:   money.Format(r.Discounts, places),
		Fees:        money.Format(r.Fees, places),
		Taxes:       money.Format(r.Taxes, places),
		TotalAmount: money.Format(r.TotalAmount, places),
		Lines:       make([]QuoteLine, 0, len(r.Lines)),
		Breakdown:   make([]NightlyCharge, 0, len(r.Breakdown)),
	}
	for _, line := range r.Lines {
		out.Lines = append(out.Lines, QuoteLine{
			Kind:   string(line.Kind),
			Name:   line.Name,
			Amount: money.Format(line.Amount, places),
		})
	}
	for _, night := range r.Breakdown {
		out.Breakdown = append(out.Breakdown, NightlyCharge{
			Date:   night.Date,
			Amount: money.Format(night.Amount, places),
			Reason: night.Reason,
		})
	}
	return out
}
