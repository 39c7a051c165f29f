package carbon

import (
	"fmt"
	"math"
	"sync"
)

// EmissionsCalculator converts activity data into kgCO2e.
type EmissionsCalculator interface {
	// Scope1 calculates direct combustion emissions for a fuel quantity.
	Scope1(fuelType string, quantity float64, unit string) (Result, error)

	// Scope2 calculates purchased-energy emissions, optionally replacing the
	// grid's renewable share with renewablePct (0..1).
	Scope2(energyType string, quantity float64, unit string, renewablePct *float64) (Result, error)

	// Scope3 calculates value-chain emissions. secondary carries the cargo
	// weight of freight activities.
	Scope3(activityType string, quantity float64, unit string, secondary *Secondary) (Result, error)

	// Vehicle calculates Scope 1 emissions of a trip with a company vehicle.
	Vehicle(trip VehicleTrip) (Result, error)
}

// VehicleTrip describes distance travelled by one vehicle.
type VehicleTrip struct {
	VehicleType string  `json:"vehicle_type"`
	EuroClass   string  `json:"euro_class"`
	FuelType    string  `json:"fuel_type"`
	Distance    float64 `json:"distance"`

	// DistanceUnit is a TRANSPORT unit symbol; empty means km.
	DistanceUnit string `json:"distance_unit"`
}

// Calculator implements EmissionsCalculator over an injected registry and
// vehicle table. It holds no mutable state and is safe for concurrent use.
//
// Unknown activity keys, unknown units and missing vehicle rows never fail a
// calculation: they yield a degraded Result whose Warnings say what happened.
// Only invalid numeric input (NaN, infinite or negative quantities) returns an
// error wrapping ErrInvalidQuantity.
type Calculator struct {
	registry *Registry
	vehicles *VehicleTable
}

var (
	defaultCalculator     *Calculator
	defaultCalculatorOnce sync.Once
)

// NewCalculator creates a Calculator. Nil arguments select the embedded
// defaults.
func NewCalculator(registry *Registry, vehicles *VehicleTable) *Calculator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if vehicles == nil {
		vehicles = DefaultVehicleTable()
	}
	return &Calculator{registry: registry, vehicles: vehicles}
}

// DefaultCalculator returns the Calculator over the embedded datasets.
func DefaultCalculator() *Calculator {
	defaultCalculatorOnce.Do(func() {
		defaultCalculator = NewCalculator(nil, nil)
	})
	return defaultCalculator
}

// Registry returns the reference dataset used by the calculator.
func (c *Calculator) Registry() *Registry {
	return c.registry
}

// Vehicles returns the vehicle factor table used by the calculator.
func (c *Calculator) Vehicles() *VehicleTable {
	return c.vehicles
}

// unknownFactor builds the zero result for an activity key missing from the
// registry.
func (c *Calculator) unknownFactor(scope Scope, key string) Result {
	logger.Warn().
		Str("scope", string(scope)).
		Str("factor_key", key).
		Msg("emission factor not found")
	return Result{
		Scope:        scope,
		ActivityType: key,
		Warnings: []Warning{newWarning(WarningUnknownFactor,
			"emission factor %q not found; emissions set to 0", key)},
	}
}

// Scope1 calculates emissions = factor × quantity × FUEL multiplier.
func (c *Calculator) Scope1(fuelType string, quantity float64, unit string) (Result, error) {
	if err := validateQuantity("quantity", quantity); err != nil {
		return Result{}, fmt.Errorf("scope 1 %s: %w", fuelType, err)
	}

	factor, ok := c.registry.Lookup(fuelType)
	if !ok {
		return c.unknownFactor(Scope1, fuelType), nil
	}

	normalized, warnings := c.registry.normalize(UnitFuel, quantity, unit)
	return Result{
		Scope:              Scope1,
		ActivityType:       fuelType,
		Factor:             factor,
		AppliedFactor:      factor.Value,
		NormalizedQuantity: normalized,
		EmissionsKg:        factor.Value * normalized,
		Warnings:           warnings,
	}, nil
}

// Scope2 calculates purchased-energy emissions.
//
// For grid electricity (factors carrying a grid mix) with renewablePct set:
//  1. fossilFactor = factor / (1 - gridRenewableShare)
//  2. adjustedFactor = fossilFactor × (1 - renewablePct)
//  3. emissions = adjustedFactor × normalized kWh
//
// This swaps the national renewable share assumed by the published factor for
// the share of the buyer's own supply contract. renewablePct outside [0,1] is
// clamped. Other energy types ignore renewablePct.
func (c *Calculator) Scope2(energyType string, quantity float64, unit string, renewablePct *float64) (Result, error) {
	if err := validateQuantity("quantity", quantity); err != nil {
		return Result{}, fmt.Errorf("scope 2 %s: %w", energyType, err)
	}
	if renewablePct != nil && (math.IsNaN(*renewablePct) || math.IsInf(*renewablePct, 0)) {
		return Result{}, fmt.Errorf("scope 2 %s: %w: renewable percentage must be finite", energyType, ErrInvalidQuantity)
	}

	factor, ok := c.registry.Lookup(energyType)
	if !ok {
		return c.unknownFactor(Scope2, energyType), nil
	}

	normalized, warnings := c.registry.normalize(UnitEnergy, quantity, unit)

	applied := factor.Value
	if share, hasMix := c.registry.mix.Share(factor.GridMix); hasMix && renewablePct != nil {
		pct := Clamp(*renewablePct, 0, 1)
		if pct != *renewablePct {
			logger.Warn().
				Str("factor_key", energyType).
				Float64("renewable_percentage", *renewablePct).
				Msg("renewable percentage outside [0,1], clamped")
			warnings = append(warnings, newWarning(WarningRenewableClamped,
				"renewable percentage %s clamped to %s", formatFloat(*renewablePct), formatFloat(pct)))
		}
		fossilFactor := factor.Value / (1 - share.Renewable)
		applied = fossilFactor * (1 - pct)
	}

	return Result{
		Scope:              Scope2,
		ActivityType:       energyType,
		Factor:             factor,
		AppliedFactor:      applied,
		NormalizedQuantity: normalized,
		EmissionsKg:        applied * normalized,
		Warnings:           warnings,
	}, nil
}

// Scope3 calculates value-chain emissions. The factor category selects the
// path:
//   - waste: quantity is normalized with the WASTE table (tonnes)
//   - freight: distance is normalized with the TRANSPORT table and, when a
//     secondary weight is given, multiplied by that weight normalized with
//     the WASTE table, giving tonne-kilometres
//   - travel: distance is normalized with the TRANSPORT table
func (c *Calculator) Scope3(activityType string, quantity float64, unit string, secondary *Secondary) (Result, error) {
	if err := validateQuantity("quantity", quantity); err != nil {
		return Result{}, fmt.Errorf("scope 3 %s: %w", activityType, err)
	}
	if secondary != nil {
		if err := validateQuantity("secondary quantity", secondary.Quantity); err != nil {
			return Result{}, fmt.Errorf("scope 3 %s: %w", activityType, err)
		}
	}

	factor, ok := c.registry.Lookup(activityType)
	if !ok {
		return c.unknownFactor(Scope3, activityType), nil
	}

	var (
		normalized float64
		warnings   []Warning
	)
	switch factor.Category {
	case CategoryWaste:
		normalized, warnings = c.registry.normalize(UnitWaste, quantity, unit)
	case CategoryFreight:
		normalized, warnings = c.registry.normalize(UnitTransport, quantity, unit)
		if secondary != nil && secondary.Unit != "" {
			weight, weightWarnings := c.registry.normalize(UnitWaste, secondary.Quantity, secondary.Unit)
			warnings = append(warnings, weightWarnings...)
			normalized *= weight
		} else {
			logger.Warn().
				Str("factor_key", activityType).
				Msg("freight factor applied without cargo weight")
			warnings = append(warnings, newWarning(WarningMissingFreightWeight,
				"%s is per tonne-kilometre but no cargo weight was given", activityType))
		}
	default:
		normalized, warnings = c.registry.normalize(UnitTransport, quantity, unit)
	}

	return Result{
		Scope:              Scope3,
		ActivityType:       activityType,
		Factor:             factor,
		AppliedFactor:      factor.Value,
		NormalizedQuantity: normalized,
		EmissionsKg:        factor.Value * normalized,
		Warnings:           warnings,
	}, nil
}

// Vehicle calculates Scope 1 emissions of a company vehicle trip:
// emissions (kg) = resolved factor (g/km) × normalized km / 1000.
func (c *Calculator) Vehicle(trip VehicleTrip) (Result, error) {
	if err := validateQuantity("distance", trip.Distance); err != nil {
		return Result{}, fmt.Errorf("vehicle %s/%s/%s: %w", trip.VehicleType, trip.EuroClass, trip.FuelType, err)
	}

	unit := trip.DistanceUnit
	if unit == "" {
		unit = "km"
	}
	km, warnings := c.registry.normalize(UnitTransport, trip.Distance, unit)

	res := c.vehicles.Resolve(trip.VehicleType, trip.EuroClass, trip.FuelType)
	switch res.Tier {
	case TierClosestEuroClass:
		warnings = append(warnings, newWarning(WarningVehicleClosestEuroClass,
			"no factor for %s %s %s; used %s", trip.VehicleType, trip.EuroClass, trip.FuelType, res.MatchedEuroClass))
	case TierDefault:
		warnings = append(warnings, newWarning(WarningVehicleDefault,
			"no factor for %s %s; used default %s g/km", trip.VehicleType, trip.FuelType, formatFloat(res.Factor)))
	}

	kgPerKm := res.Factor / GramsPerKg
	return Result{
		Scope:        Scope1,
		ActivityType: trip.FuelType,
		Factor: EmissionFactor{
			Key:         trip.VehicleType + "/" + trip.EuroClass + "/" + trip.FuelType,
			Value:       kgPerKm,
			Unit:        "kg/km",
			Scope:       Scope1,
			Category:    CategoryVehicle,
			Description: res.Source,
		},
		AppliedFactor:      kgPerKm,
		NormalizedQuantity: km,
		EmissionsKg:        kgPerKm * km,
		Vehicle:            &res,
		Warnings:           warnings,
	}, nil
}
