package availability

import (
	"sort"
	"time"

	"bookingengine/internal/domain/booking"
	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/units"
)

// Block is a stretch of nights held by a booking.
type Block struct {
	Range     daterange.DateRange
	BookingID booking.BookingID
	Status    booking.Status
}

// IsAvailable reports whether the unit is free for [checkIn, checkOut).
// checkIn < checkOut is the caller's responsibility. Cancelled bookings and
// bookings of other units are ignored; a booking ending on the requested
// check-in day does not conflict.
func IsAvailable(unitID units.UnitID, checkIn, checkOut time.Time, activeBookings []booking.Booking) bool {
	return len(Conflicts(unitID, checkIn, checkOut, activeBookings)) == 0
}

// Conflicts lists the bookings that overlap the requested stay.
func Conflicts(unitID units.UnitID, checkIn, checkOut time.Time, activeBookings []booking.Booking) []booking.Booking {
	stay := daterange.DateRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)}
	var out []booking.Booking
	for _, b := range activeBookings {
		if !b.Active() || b.UnitID != unitID {
			continue
		}
		held := daterange.DateRange{CheckIn: daterange.Day(b.Range.CheckIn), CheckOut: daterange.Day(b.Range.CheckOut)}
		if stay.CheckIn.Before(held.CheckOut) && held.CheckIn.Before(stay.CheckOut) {
			out = append(out, b)
		}
	}
	return out
}

// Occupancy returns the parts of active bookings falling inside window,
// ordered by check-in.
func Occupancy(unitID units.UnitID, window daterange.DateRange, activeBookings []booking.Booking) []Block {
	blocks := make([]Block, 0, len(activeBookings))
	for _, b := range Conflicts(unitID, window.CheckIn, window.CheckOut, activeBookings) {
		part, ok := b.Range.Intersect(window)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{Range: part, BookingID: b.ID, Status: b.Status})
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Range.CheckIn.Before(blocks[j].Range.CheckIn)
	})
	return blocks
}
