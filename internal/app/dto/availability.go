package dto

import (
	"time"

	domainavailability "bookingengine/internal/domain/availability"
	domainbooking "bookingengine/internal/domain/booking"
	"bookingengine/internal/domain/shared/daterange"
)

type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type Availability struct {
	UnitID    string      `json:"unit_id"`
	CheckIn   time.Time   `json:"check_in"`
	CheckOut  time.Time   `json:"check_out"`
	Available bool        `json:"available"`
	Conflicts []DateRange `json:"conflicts"`
}

// MapAvailability reports the stay and the ranges of conflicting bookings.
func MapAvailability(unitID string, stay daterange.DateRange, conflicts []domainbooking.Booking) Availability {
	out := Availability{
		UnitID:    unitID,
		CheckIn:   stay.CheckIn,
		CheckOut:  stay.CheckOut,
		Available: len(conflicts) == 0,
		Conflicts: make([]DateRange, 0, len(conflicts)),
	}
	for _, b := range conflicts {
		out.Conflicts = append(out.Conflicts, DateRange{CheckIn: b.Range.CheckIn, CheckOut: b.Range.CheckOut})
	}
	return out
}

type OccupancyBlock struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
}

type Occupancy struct {
	UnitID string           `json:"unit_id"`
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Blocks []OccupancyBlock `json:"blocks"`
	Nights int              `json:"occupied_nights"`
}

func MapOccupancy(unitID string, window daterange.DateRange, blocks []domainavailability.Block) Occupancy {
	out := Occupancy{
		UnitID: unitID,
		From:   window.CheckIn,
		To:     window.CheckOut,
		Blocks: make([]OccupancyBlock, 0, len(blocks)),
	}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, OccupancyBlock{
			From:      b.Range.CheckIn,
			To:        b.Range.CheckOut,
			BookingID: string(b.BookingID),
			Status:    string(b.Status),
		})
		out.Nights += b.Range.Nights()
	}
	return out
}
