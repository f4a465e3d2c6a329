package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	in := time.Date(2024, 3, 30, 22, 15, 0, 0, time.UTC)
	out := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	dr, err := New(in, out)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), dr.CheckIn)
	assert.Equal(t, 3, dr.Nights())

	_, err = New(out, in)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(in, in.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, out)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDayKeepsCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2024, 6, 1, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Day(local))
}

func TestDates(t *testing.T) {
	dr, err := New(time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	dates := dr.Dates()
	require.Len(t, dates, 4)
	assert.Equal(t, 29, dates[2].Day())
	assert.Equal(t, time.March, dates[3].Month())
	assert.Equal(t, dr.Nights(), len(dates))
}

func TestOverlapsAndAdjacent(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	a := DateRange{CheckIn: d(1), CheckOut: d(5)}
	b := DateRange{CheckIn: d(5), CheckOut: d(10)}
	c := DateRange{CheckIn: d(4), CheckOut: d(6)}

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Adjacent(b))
	assert.True(t, a.Overlaps(c))
	assert.True(t, b.Overlaps(c))

	part, ok := a.Intersect(c)
	require.True(t, ok)
	assert.Equal(t, DateRange{CheckIn: d(4), CheckOut: d(5)}, part)

	_, ok = a.Intersect(b)
	assert.False(t, ok)

	assert.True(t, a.ContainsDate(d(1).Add(3*time.Hour)))
	assert.False(t, a.ContainsDate(d(5)))
}
