package carbon

import "fmt"

// Scope is a greenhouse-gas accounting scope.
type Scope string

const (
	// Scope1 covers direct emissions from owned combustion sources.
	Scope1 Scope = "SCOPE1"

	// Scope2 covers indirect emissions from purchased energy.
	Scope2 Scope = "SCOPE2"

	// Scope3 covers other indirect emissions across the value chain.
	Scope3 Scope = "SCOPE3"
)

// Valid reports whether s is one of the three accounting scopes.
func (s Scope) Valid() bool {
	switch s {
	case Scope1, Scope2, Scope3:
		return true
	default:
		return false
	}
}

// Source is the body publishing an emission factor.
type Source string

const (
	SourceIPCC  Source = "IPCC"
	SourceDEFRA Source = "DEFRA"
	SourceISPRA Source = "ISPRA"
)

// Valid reports whether s is a known factor publisher.
func (s Source) Valid() bool {
	switch s {
	case SourceIPCC, SourceDEFRA, SourceISPRA:
		return true
	default:
		return false
	}
}

// ActivityCategory tags what kind of activity a factor measures. The Scope 3
// calculator matches on it to choose unit tables and the tonne-kilometre path.
type ActivityCategory string

const (
	CategoryFuel    ActivityCategory = "fuel"
	CategoryEnergy  ActivityCategory = "energy"
	CategoryFreight ActivityCategory = "freight"
	CategoryTravel  ActivityCategory = "travel"
	CategoryWaste   ActivityCategory = "waste"
	CategoryVehicle ActivityCategory = "vehicle"
)

// Valid reports whether c is a category a dataset factor may carry.
// CategoryVehicle is reserved for results of vehicle calculations.
func (c ActivityCategory) Valid() bool {
	switch c {
	case CategoryFuel, CategoryEnergy, CategoryFreight, CategoryTravel, CategoryWaste:
		return true
	default:
		return false
	}
}

// UnitCategory selects a unit conversion table.
type UnitCategory string

const (
	UnitFuel      UnitCategory = "FUEL"
	UnitEnergy    UnitCategory = "ENERGY"
	UnitTransport UnitCategory = "TRANSPORT"
	UnitWaste     UnitCategory = "WASTE"
)

// UnitCategories lists the conversion tables in display order.
func UnitCategories() []UnitCategory {
	return []UnitCategory{UnitFuel, UnitEnergy, UnitTransport, UnitWaste}
}

// Valid reports whether c names a conversion table.
func (c UnitCategory) Valid() bool {
	switch c {
	case UnitFuel, UnitEnergy, UnitTransport, UnitWaste:
		return true
	default:
		return false
	}
}

// EmissionFactor is an immutable reference entry of the factor registry.
type EmissionFactor struct {
	// Key is the activity identifier (e.g. "DIESEL").
	Key string `json:"key"`

	// Value is the emission intensity in kgCO2e per base unit.
	Value float64 `json:"value"`

	// Unit is a descriptive label such as "kg/L"; it is not used in conversions.
	Unit string `json:"unit"`

	// Source is the publishing body.
	Source Source `json:"source"`

	// Scope is the accounting scope the factor belongs to.
	Scope Scope `json:"scope"`

	// Category tags the activity kind.
	Category ActivityCategory `json:"category"`

	// Description is the human-readable label.
	Description string `json:"description"`

	// GridMix names the energy mix region ("IT", "EU") whose renewable share is
	// embedded in this factor. Empty for factors without a grid adjustment.
	GridMix string `json:"grid_mix,omitempty"`
}

// Option is a value/label pair for selection lists.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SourceInfo describes where a factor was published.
type SourceInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Year string `json:"year"`
}

// MixShare is the renewable/fossil split of a grid. The two shares sum to 1.
type MixShare struct {
	Renewable float64 `yaml:"renewable" json:"renewable"`
	Fossil    float64 `yaml:"fossil" json:"fossil"`
}

// EnergyMix holds the national grid splits used by the Scope 2 adjustment.
type EnergyMix struct {
	IT MixShare `yaml:"IT" json:"IT"`
	EU MixShare `yaml:"EU" json:"EU"`
}

// Share returns the split for a grid region name.
func (m EnergyMix) Share(region string) (MixShare, bool) {
	switch region {
	case "IT":
		return m.IT, true
	case "EU":
		return m.EU, true
	default:
		return MixShare{}, false
	}
}

// Secondary is the optional second dimension of a Scope 3 calculation, the
// cargo weight of a tonne-kilometre freight factor.
type Secondary struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// WarningCode classifies a degraded calculation path.
type WarningCode string

const (
	// WarningUnknownFactor means the activity key is not in the registry; the
	// result is 0.
	WarningUnknownFactor WarningCode = "unknown_factor"

	// WarningUnknownUnit means the unit is not in the conversion table; the
	// quantity was used as if already in the base unit.
	WarningUnknownUnit WarningCode = "unknown_unit"

	// WarningRenewableClamped means the renewable percentage was outside [0,1].
	WarningRenewableClamped WarningCode = "renewable_clamped"

	// WarningMissingFreightWeight means a tonne-kilometre factor was applied to
	// a distance without a cargo weight.
	WarningMissingFreightWeight WarningCode = "missing_freight_weight"

	// WarningVehicleClosestEuroClass means the vehicle factor came from another
	// Euro class of the same vehicle and fuel.
	WarningVehicleClosestEuroClass WarningCode = "vehicle_closest_euro_class"

	// WarningVehicleDefault means the vehicle factor is DefaultVehicleFactorGPerKm.
	WarningVehicleDefault WarningCode = "vehicle_default_factor"
)

// Warning records a degraded path taken while computing a Result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func newWarning(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of a single calculation.
type Result struct {
	// Scope is the accounting scope of the calculation.
	Scope Scope `json:"scope"`

	// ActivityType is the requested activity key.
	ActivityType string `json:"activity_type"`

	// Factor is the registry entry used. Zero when the key is unknown.
	Factor EmissionFactor `json:"factor"`

	// AppliedFactor is the factor value actually multiplied, after any
	// renewable adjustment, in kgCO2e per base unit.
	AppliedFactor float64 `json:"applied_factor"`

	// NormalizedQuantity is the activity quantity in the base unit. For
	// tonne-kilometre freight it is distance times weight.
	NormalizedQuantity float64 `json:"normalized_quantity"`

	// EmissionsKg is the computed emissions in kgCO2e.
	EmissionsKg float64 `json:"emissions_kg"`

	// Vehicle is set for vehicle calculations.
	Vehicle *VehicleResolution `json:"vehicle,omitempty"`

	// Warnings lists every degraded path taken.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Degraded reports whether any fallback was used to produce the result.
func (r Result) Degraded() bool {
	return len(r.Warnings) > 0
}

// HasWarning reports whether the result carries a warning with the given code.
func (r Result) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// EmissionsTonnes returns the emissions in metric tonnes CO2e.
func (r Result) EmissionsTonnes() float64 {
	return r.EmissionsKg / KgPerTonne
}
