// Package report turns calculation results into the JSON detail records kept
// by the reporting layer and sums them into per-scope totals.
package report

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/rshade/vsme-emissions/internal/carbon"
)

// PeriodType is the reporting period a calculation covers.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodAnnual    PeriodType = "annual"
)

// ParsePeriodType validates a period name. Empty selects PeriodAnnual.
func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(s); p {
	case "":
		return PeriodAnnual, nil
	case PeriodMonthly, PeriodQuarterly, PeriodAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// Record is the details blob stored for every calculation.
type Record struct {
	ID           string       `json:"id"`
	Scope        carbon.Scope `json:"scope"`
	ActivityType string       `json:"activity_type"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`

	SecondaryQuantity   *float64 `json:"secondary_quantity,omitempty"`
	SecondaryUnit       string   `json:"secondary_unit,omitempty"`
	RenewablePercentage *float64 `json:"renewable_percentage,omitempty"`

	VehicleType string                    `json:"vehicle_type,omitempty"`
	EuroClass   string                    `json:"euro_class,omitempty"`
	Vehicle     *carbon.VehicleResolution `json:"vehicle,omitempty"`

	PeriodType PeriodType `json:"period_type"`

	EmissionFactor  float64 `json:"emission_factor"`
	FactorUnit      string  `json:"factor_unit,omitempty"`
	EmissionsKg     float64 `json:"emissions_kg"`
	EmissionsTonnes float64 `json:"emissions_tonnes"`

	CalculatedAt time.Time          `json:"calculated_at"`
	Source       *carbon.SourceInfo `json:"source,omitempty"`
	Warnings     []carbon.Warning   `json:"warnings,omitempty"`
}

// Marshal encodes the record as JSON.
func (r Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord decodes a JSON record.
func UnmarshalRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decoding record: %w", err)
	}
	return r, nil
}

// Input carries the request side of a calculation.
type Input struct {
	Quantity            float64
	Unit                string
	Secondary           *carbon.Secondary
	RenewablePercentage *float64
	Trip                *carbon.VehicleTrip
	PeriodType          PeriodType
}

// Builder creates records. Clock and NewID are replaceable for tests.
type Builder struct {
	registry *carbon.Registry
	clock    func() time.Time
	newID    func() string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock sets the timestamp source.
func WithClock(clock func() time.Time) BuilderOption {
	return func(b *Builder) { b.clock = clock }
}

// WithIDGenerator sets the record ID source.
func WithIDGenerator(newID func() string) BuilderOption {
	return func(b *Builder) { b.newID = newID }
}

// NewBuilder creates a Builder resolving source metadata from registry.
func NewBuilder(registry *carbon.Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: registry,
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the record of one calculation.
func (b *Builder) Build(res carbon.Result, in Input) Record {
	period := in.PeriodType
	if period == "" {
		period = PeriodAnnual
	}

	rec := Record{
		ID:              b.newID(),
		Scope:           res.Scope,
		ActivityType:    res.ActivityType,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		PeriodType:      period,
		EmissionFactor:  res.AppliedFactor,
		FactorUnit:      res.Factor.Unit,
		EmissionsKg:     res.EmissionsKg,
		EmissionsTonnes: res.EmissionsTonnes(),
		CalculatedAt:    b.clock().UTC(),
		Vehicle:         res.Vehicle,
		Warnings:        res.Warnings,
	}

	// Only grid-mix factors apply the renewable adjustment.
	if res.Factor.GridMix != "" {
		rec.RenewablePercentage = in.RenewablePercentage
	}

	if in.Secondary != nil {
		q := in.Secondary.Quantity
		rec.SecondaryQuantity = &q
		rec.SecondaryUnit = in.Secondary.Unit
	}

	if in.Trip != nil {
		rec.VehicleType = in.Trip.VehicleType
		rec.EuroClass = in.Trip.EuroClass
		rec.Quantity = in.Trip.Distance
		rec.Unit = in.Trip.DistanceUnit
		if rec.Unit == "" {
			rec.Unit = "km"
		}
	}

	switch {
	case res.Vehicle != nil:
		rec.Source = &carbon.SourceInfo{Name: res.Vehicle.Source}
	case b.registry != nil:
		if info, ok := b.registry.SourceInfo(res.ActivityType); ok {
			rec.Source = &info
		}
	}

	return rec
}
