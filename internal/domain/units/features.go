package units

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Features is the parsed form of a unit's free-form custom features bag.
type Features map[string]any

// ParseFeatures decodes a JSON object. Anything that is not exactly one JSON
// object (empty input, truncated text, arrays, scalars, trailing content)
// yields an empty bag.
func ParseFeatures(raw string) Features {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Features{}
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil || out == nil {
		return Features{}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Features{}
	}
	return Features(out)
}

// Decimal extracts a numeric value stored under key, either as a JSON number
// or a numeric string. Missing keys and non-numeric values report ok=false and
// a zero amount.
func (f Features) Decimal(key string) (decimal.Decimal, bool) {
	v, ok := f[key]
	if !ok {
		return decimal.Zero, false
	}
	var text string
	switch value := v.(type) {
	case json.Number:
		text = value.String()
	case string:
		text = strings.TrimSpace(value)
	case float64:
		// Only maps built in code hold float64; parsed ones use json.Number.
		text = strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DecimalOrZero is Decimal without the ok flag.
func (f Features) DecimalOrZero(key string) decimal.Decimal {
	d, _ := f.Decimal(key)
	return d
}

// String returns a string value stored under key.
func (f Features) String(key string) (string, bool) {
	v, ok := f[key].(string)
	return v, ok
}

// Raw serializes the bag back to a JSON object.
func (f Features) Raw() string {
	if len(f) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(f)); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
