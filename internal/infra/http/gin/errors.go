package ginserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	pricingapp "bookingengine/internal/app/handlers/pricing"
	"bookingengine/internal/app/handlers/support"
	domainbooking "bookingengine/internal/domain/booking"
	"bookingengine/internal/domain/shared/daterange"
	domainunits "bookingengine/internal/domain/units"
)

var errBadDate = errors.New("dates must be YYYY-MM-DD or RFC 3339")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps application errors to HTTP statuses and stable codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, support.ErrInvalidInput), errors.Is(err, errBadDate):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domainunits.ErrUnitNotFound), errors.Is(err, domainbooking.ErrBookingNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, pricingapp.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "capacity_exceeded"
	case errors.Is(err, pricingapp.ErrUnitUnavailable):
		return http.StatusConflict, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

// parseDate accepts a calendar date or a full timestamp; only the calendar
// date of a timestamp is kept.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errBadDate
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return daterange.Day(t), nil
}

func parseDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}
