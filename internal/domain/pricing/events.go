package pricing

import (
	"time"

	"bookingengine/internal/domain/shared/events"
)

const EventQuoteCalculated = "pricing.quote_calculated"

type QuoteCalculated struct {
	events.BaseEvent
	UnitID   string    `json:"unit_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Nights   int       `json:"nights"`
	Guests   int       `json:"guests"`
	Total    string    `json:"total"`
}

// NewQuoteCalculated describes a quote handed to a caller; total is the
// already rounded figure the caller saw.
func NewQuoteCalculated(q Quote, guests int, total string, now time.Time) QuoteCalculated {
	return QuoteCalculated{
		BaseEvent: events.BaseEvent{Name: EventQuoteCalculated, Aggregate: string(q.UnitID), Time: now.UTC()},
		UnitID:    string(q.UnitID),
		CheckIn:   q.Range.CheckIn,
		CheckOut:  q.Range.CheckOut,
		Nights:    q.Nights,
		Guests:    guests,
		Total:     total,
	}
}
