package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/units"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrIDRequired      = errors.New("booking: id is required")
	ErrUnitRequired    = errors.New("booking: unit id is required")
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrUnknownStatus   = errors.New("booking: unknown status")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled, "CANCELED":
		return StatusCancelled, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Booking is an existing reservation for a unit over a half-open range of days.
type Booking struct {
	ID        BookingID
	UnitID    units.UnitID
	Range     daterange.DateRange
	Guests    int
	Status    Status
	CreatedAt time.Time
}

// Active reports whether the booking still holds its nights.
func (b Booking) Active() bool {
	return b.Status != StatusCancelled
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ActiveByUnit returns the unit's bookings that are not cancelled.
	ActiveByUnit(ctx context.Context, unitID units.UnitID) ([]Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID       BookingID
	UnitID   units.UnitID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Status   Status
	Now      time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.UnitID)) == "" {
		return nil, ErrUnitRequired
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	status := params.Status
	if status == "" {
		status = StatusPending
	}
	return &Booking{
		ID:        params.ID,
		UnitID:    params.UnitID,
		Range:     dr,
		Guests:    params.Guests,
		Status:    status,
		CreatedAt: params.Now.UTC(),
	}, nil
}

// FilterActive drops cancelled bookings, keeping order.
func FilterActive(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}
