package carbon

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

// CSV column indices of the vehicle factor table.
const (
	colVehicleType   = 0 // vehicle_type (car_small, van_medium, truck_articulated, ...)
	colEuroClass     = 1 // euro_class (euro0..euro6)
	colVehicleFuel   = 2 // fuel_type (GASOLINE, DIESEL, LPG, NATURAL_GAS, ELECTRIC, HYBRID)
	colVehicleFactor = 3 // g_co2e_per_km
	colVehicleSource = 4 // source
)

//go:embed data/vehicle_factors.csv
var vehicleFactorsCSV string

// VehicleEmissionFactor is one row of the vehicle factor table.
type VehicleEmissionFactor struct {
	VehicleType string `json:"vehicle_type"`
	EuroClass   string `json:"euro_class"`
	FuelType    string `json:"fuel_type"`

	// EmissionFactor is in grams CO2e per km.
	EmissionFactor float64 `json:"emission_factor"`

	Source string `json:"source"`
}

// VehicleTier identifies which resolution step produced a vehicle factor.
type VehicleTier int

const (
	// TierExact is an exact (vehicle, Euro class, fuel) match.
	TierExact VehicleTier = iota

	// TierClosestEuroClass is the highest Euro class available for the same
	// vehicle and fuel.
	TierClosestEuroClass

	// TierDefault is DefaultVehicleFactorGPerKm.
	TierDefault
)

// String returns a human-readable representation of the VehicleTier.
func (t VehicleTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierClosestEuroClass:
		return "closest_euro_class"
	case TierDefault:
		return "default"
	default:
		return fmt.Sprintf("VehicleTier(%d)", int(t))
	}
}

// MarshalText encodes the tier by name.
func (t VehicleTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name written by MarshalText.
func (t *VehicleTier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exact":
		*t = TierExact
	case "closest_euro_class":
		*t = TierClosestEuroClass
	case "default":
		*t = TierDefault
	default:
		return fmt.Errorf("unknown vehicle tier %q", text)
	}
	return nil
}

// VehicleResolution is the outcome of resolving a vehicle factor. Unlike
// VehicleTable.Source, Source here reflects the tier actually used.
type VehicleResolution struct {
	// Factor is in grams CO2e per km.
	Factor float64 `json:"factor"`

	Source string      `json:"source"`
	Tier   VehicleTier `json:"tier"`

	// MatchedEuroClass is the Euro class of the row used, empty for TierDefault.
	MatchedEuroClass string `json:"matched_euro_class,omitempty"`
}

type vehicleKey struct {
	vehicleType, euroClass, fuelType string
}

// VehicleTable is a flat, read-only list of vehicle emission factors.
type VehicleTable struct {
	entries []VehicleEmissionFactor
	exact   map[vehicleKey]int
}

var (
	defaultVehicleTable     *VehicleTable
	defaultVehicleTableOnce sync.Once
)

// DefaultVehicleTable returns the table parsed from the embedded CSV. It is
// parsed once on first use.
func DefaultVehicleTable() *VehicleTable {
	defaultVehicleTableOnce.Do(func() {
		t, err := ParseVehicleTable(strings.NewReader(vehicleFactorsCSV))
		if err != nil {
			logger.Error().Err(err).Msg("failed to parse embedded vehicle factors")
			t = &VehicleTable{exact: make(map[vehicleKey]int)}
		}
		defaultVehicleTable = t
	})
	return defaultVehicleTable
}

// LoadVehicleTableFile reads a vehicle factor table from a CSV file.
func LoadVehicleTableFile(path string) (*VehicleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vehicle factors %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("path", path).Msg("failed to close vehicle factors file")
		}
	}()
	return ParseVehicleTable(f)
}

// ParseVehicleTable reads a vehicle factor CSV with a header row.
// Rows with missing columns, an empty key field, or a negative, NaN or
// unparsable factor are skipped with a warning. Duplicate keys keep the first row.
func ParseVehicleTable(r io.Reader) (*VehicleTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrInvalidVehicleTable, err)
	}

	t := &VehicleTable{exact: make(map[vehicleKey]int)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Msg("skipping malformed vehicle factors CSV row")
			continue
		}

		if len(record) <= colVehicleSource {
			logger.Warn().
				Int("fields", len(record)).
				Msg("skipping vehicle factor row with missing columns")
			continue
		}

		entry := VehicleEmissionFactor{
			VehicleType: strings.TrimSpace(record[colVehicleType]),
			EuroClass:   strings.TrimSpace(record[colEuroClass]),
			FuelType:    strings.TrimSpace(record[colVehicleFuel]),
			Source:      strings.TrimSpace(record[colVehicleSource]),
		}
		if entry.VehicleType == "" || entry.EuroClass == "" || entry.FuelType == "" {
			logger.Warn().
				Str("vehicle_type", entry.VehicleType).
				Str("euro_class", entry.EuroClass).
				Str("fuel_type", entry.FuelType).
				Msg("skipping vehicle factor row with empty key field")
			continue
		}

		factor, err := strconv.ParseFloat(strings.TrimSpace(record[colVehicleFactor]), 64)
		if err != nil || math.IsNaN(factor) || factor < 0 || math.IsInf(factor, 0) {
			logger.Warn().
				Str("vehicle_type", entry.VehicleType).
				Str("euro_class", entry.EuroClass).
				Str("fuel_type", entry.FuelType).
				Msg("skipping vehicle factor row with invalid value")
			continue
		}
		entry.EmissionFactor = factor

		key := vehicleKey{entry.VehicleType, entry.EuroClass, entry.FuelType}
		if _, dup := t.exact[key]; dup {
			continue
		}
		t.exact[key] = len(t.entries)
		t.entries = append(t.entries, entry)
	}

	return t, nil
}

// Len returns the number of rows.
func (t *VehicleTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the rows in table order.
func (t *VehicleTable) Entries() []VehicleEmissionFactor {
	out := make([]VehicleEmissionFactor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the row exactly matching the triple.
func (t *VehicleTable) Lookup(vehicleType, euroClass, fuelType string) (VehicleEmissionFactor, bool) {
	i, ok := t.exact[vehicleKey{vehicleType, euroClass, fuelType}]
	if !ok {
		return VehicleEmissionFactor{}, false
	}
	return t.entries[i], true
}

// Resolve finds a factor in three steps:
//  1. exact (vehicle, Euro class, fuel) match
//  2. same vehicle and fuel, highest Euro class; the first row in table
//     order wins a tie
//  3. DefaultVehicleFactorGPerKm
func (t *VehicleTable) Resolve(vehicleType, euroClass, fuelType string) VehicleResolution {
	if e, ok := t.Lookup(vehicleType, euroClass, fuelType); ok {
		return VehicleResolution{
			Factor:           e.EmissionFactor,
			Source:           e.Source,
			Tier:             TierExact,
			MatchedEuroClass: e.EuroClass,
		}
	}

	best := -1
	bestRank := 0
	for i, e := range t.entries {
		if e.VehicleType != vehicleType || e.FuelType != fuelType {
			continue
		}
		rank := euroClassRank(e.EuroClass)
		if best < 0 || rank > bestRank {
			best, bestRank = i, rank
		}
	}
	if best >= 0 {
		e := t.entries[best]
		logger.Debug().
			Str("vehicle_type", vehicleType).
			Str("euro_class", euroClass).
			Str("fuel_type", fuelType).
			Str("matched_euro_class", e.EuroClass).
			Msg("no exact vehicle factor, using closest Euro class")
		return VehicleResolution{
			Factor:           e.EmissionFactor,
			Source:           e.Source,
			Tier:             TierClosestEuroClass,
			MatchedEuroClass: e.EuroClass,
		}
	}

	logger.Warn().
		Str("vehicle_type", vehicleType).
		Str("euro_class", euroClass).
		Str("fuel_type", fuelType).
		Float64("default_g_per_km", DefaultVehicleFactorGPerKm).
		Msg("no vehicle factor for vehicle and fuel, using default")
	return VehicleResolution{
		Factor: DefaultVehicleFactorGPerKm,
		Source: DefaultVehicleFactorSource,
		Tier:   TierDefault,
	}
}

// Factor returns the resolved factor in gCO2e/km. It never fails.
func (t *VehicleTable) Factor(vehicleType, euroClass, fuelType string) float64 {
	return t.Resolve(vehicleType, euroClass, fuelType).Factor
}

// Source returns the source of the exact row, or DefaultVehicleFactorSource
// when there is none. It does not follow the Euro class fallback that Factor
// uses.
func (t *VehicleTable) Source(vehicleType, euroClass, fuelType string) string {
	if e, ok := t.Lookup(vehicleType, euroClass, fuelType); ok {
		return e.Source
	}
	return DefaultVehicleFactorSource
}

// euroClassRank parses the trailing digit of a Euro class ("euro6" -> 6).
// Anything else ranks 0.
func euroClassRank(euroClass string) int {
	if euroClass == "" {
		return 0
	}
	last := euroClass[len(euroClass)-1]
	if last < '0' || last > '9' {
		return 0
	}
	return int(last - '0')
}
