package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bookingengine/internal/app/uow"
	domainbooking "bookingengine/internal/domain/booking"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/money"
	domainunits "bookingengine/internal/domain/units"
)

// File is the seed document: units, their pricing rules and existing bookings.
type File struct {
	Units    []UnitFixture    `json:"units"`
	Rules    []RuleFixture    `json:"pricing_rules"`
	Bookings []BookingFixture `json:"bookings"`
}

type UnitFixture struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	BasePrice          string          `json:"base_price"`
	DiscountPercentage string          `json:"discount_percentage"`
	MaxCapacity        int             `json:"max_capacity"`
	CustomFeatures     json.RawMessage `json:"custom_features"`
}

type RuleFixture struct {
	ID          string `json:"id"`
	UnitID      string `json:"unit_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	PriceAmount string `json:"price_amount"`
	PriceType   string `json:"price_type"`
	Description string `json:"description"`
}

type BookingFixture struct {
	ID       string `json:"id"`
	UnitID   string `json:"unit_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Status   string `json:"status"`
}

// Report counts what was imported and what was skipped as invalid.
type Report struct {
	Units    int
	Rules    int
	Bookings int
	Skipped  int
}

// LoadFile reads and imports path. A missing file is not an error.
func LoadFile(ctx context.Context, path string, factory uow.UoWFactory, logger *slog.Logger) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return Report{}, nil
		}
		return Report{}, fmt.Errorf("read fixtures: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		logger.Warn("fixtures file empty", "path", path)
		return Report{}, nil
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return Report{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return Import(ctx, file, factory, logger)
}

// Import stores every valid entry in one unit of work. Invalid entries are
// logged and skipped.
func Import(ctx context.Context, file File, factory uow.UoWFactory, logger *slog.Logger) (Report, error) {
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return Report{}, err
	}
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	var report Report
	for _, fx := range file.Units {
		u, err := fx.toDomain(now)
		if err != nil {
			logger.Error("unit fixture invalid", "unit_id", fx.ID, "error", err)
			report.Skipped++
			continue
		}
		if err := unit.Units().Save(ctx, u); err != nil {
			return report, fmt.Errorf("save unit %s: %w", fx.ID, err)
		}
		report.Units++
	}
	for _, fx := range file.Rules {
		r, err := fx.toDomain()
		if err != nil {
			logger.Error("pricing rule fixture invalid", "rule_id", fx.ID, "error", err)
			report.Skipped++
			continue
		}
		if err := unit.PricingRules().Save(ctx, r); err != nil {
			return report, fmt.Errorf("save rule %s: %w", fx.ID, err)
		}
		report.Rules++
	}
	for _, fx := range file.Bookings {
		b, err := fx.toDomain(now)
		if err != nil {
			logger.Error("booking fixture invalid", "booking_id", fx.ID, "error", err)
			report.Skipped++
			continue
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return report, fmt.Errorf("save booking %s: %w", fx.ID, err)
		}
		report.Bookings++
	}

	if err := unit.Commit(ctx); err != nil {
		return report, err
	}
	committed = true
	logger.Info("fixtures imported", "units", report.Units, "rules", report.Rules, "bookings", report.Bookings, "skipped", report.Skipped)
	return report, nil
}

func (fx UnitFixture) toDomain(now time.Time) (*domainunits.Unit, error) {
	base, err := money.Parse(fx.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("base_price: %w", err)
	}
	discount := money.MustParse("0")
	if fx.DiscountPercentage != "" {
		if discount, err = money.Parse(fx.DiscountPercentage); err != nil {
			return nil, fmt.Errorf("discount_percentage: %w", err)
		}
	}
	return domainunits.NewUnit(domainunits.CreateParams{
		ID:                 domainunits.UnitID(fx.ID),
		Name:               fx.Name,
		BasePrice:          base,
		DiscountPercentage: discount,
		MaxCapacity:        fx.MaxCapacity,
		CustomFeatures:     rawFeatures(fx.CustomFeatures),
		Now:                now,
	})
}

// rawFeatures accepts the features either as an embedded object or as the
// JSON text stored in a string.
func rawFeatures(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

func (fx RuleFixture) toDomain() (domainpricing.PricingRule, error) {
	start, err := time.Parse(time.DateOnly, fx.StartDate)
	if err != nil {
		return domainpricing.PricingRule{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, fx.EndDate)
	if err != nil {
		return domainpricing.PricingRule{}, fmt.Errorf("end_date: %w", err)
	}
	price, err := money.Parse(fx.PriceAmount)
	if err != nil {
		return domainpricing.PricingRule{}, fmt.Errorf("price_amount: %w", err)
	}
	return domainpricing.NewRule(domainpricing.RuleParams{
		ID:          domainpricing.RuleID(fx.ID),
		UnitID:      domainunits.UnitID(fx.UnitID),
		StartDate:   start,
		EndDate:     end,
		PriceAmount: price,
		PriceType:   fx.PriceType,
		Description: fx.Description,
	})
}

func (fx BookingFixture) toDomain(now time.Time) (*domainbooking.Booking, error) {
	in, err := time.Parse(time.DateOnly, fx.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("check_in: %w", err)
	}
	out, err := time.Parse(time.DateOnly, fx.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check_out: %w", err)
	}
	var status domainbooking.Status
	if fx.Status != "" {
		if status, err = domainbooking.ParseStatus(fx.Status); err != nil {
			return nil, err
		}
	}
	return domainbooking.NewBooking(domainbooking.CreateParams{
		ID:       domainbooking.BookingID(fx.ID),
		UnitID:   domainunits.UnitID(fx.UnitID),
		CheckIn:  in,
		CheckOut: out,
		Guests:   fx.Guests,
		Status:   status,
		Now:      now,
	})
}
