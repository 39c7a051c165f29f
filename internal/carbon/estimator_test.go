package carbon

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floatTolerance = 1e-9

func TestCalculator_Scope1(t *testing.T) {
	calc := NewCalculator(nil, nil)

	tests := []struct {
		name     string
		fuel     string
		quantity float64
		unit     string
		wantKg   float64
	}{
		{"diesel litres", FuelDiesel, 10, "L", 26.8},
		{"diesel kilolitres", FuelDiesel, 1, "kL", 2680},
		{"gasoline litres", FuelGasoline, 100, "L", 231},
		{"natural gas standard cubic metres", FuelNaturalGas, 1000, "Sm3", 1970},
		{"coal tonnes", FuelCoal, 2, "t", 4840},
		{"zero quantity", FuelLPG, 0, "L", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Scope1(tt.fuel, tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, res.EmissionsKg, floatTolerance)
			assert.Equal(t, Scope1, res.Scope)
			assert.Equal(t, tt.fuel, res.ActivityType)
			assert.False(t, res.Degraded())
		})
	}
}

func TestCalculator_Scope1_Determinism(t *testing.T) {
	calc := NewCalculator(nil, nil)

	first, err := calc.Scope1(FuelGasoline, 123.45, "L")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := calc.Scope1(FuelGasoline, 123.45, "L")
		require.NoError(t, err)
		assert.Equal(t, first.EmissionsKg, again.EmissionsKg)
	}
}

func TestCalculator_Scope1_Linearity(t *testing.T) {
	calc := NewCalculator(nil, nil)

	for _, fuel := range []string{FuelDiesel, FuelNaturalGas, FuelBiomassPellet, FuelOil} {
		t.Run(fuel, func(t *testing.T) {
			single, err := calc.Scope1(fuel, 37.5, "L")
			require.NoError(t, err)
			double, err := calc.Scope1(fuel, 75, "L")
			require.NoError(t, err)
			assert.InDelta(t, 2*single.EmissionsKg, double.EmissionsKg, floatTolerance)
		})
	}
}

func TestCalculator_Scope1_UnitRoundTrip(t *testing.T) {
	calc := NewCalculator(nil, nil)

	litres, err := calc.Scope1(FuelDiesel, 1000, "L")
	require.NoError(t, err)
	kilolitres, err := calc.Scope1(FuelDiesel, 1, "kL")
	require.NoError(t, err)

	assert.InDelta(t, litres.EmissionsKg, kilolitres.EmissionsKg, floatTolerance)
	assert.Equal(t, litres.NormalizedQuantity, kilolitres.NormalizedQuantity)
}

func TestCalculator_Scope1_UnknownFuel(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	res, err := NewCalculator(nil, nil).Scope1("NOT_A_FUEL", 100, "L")

	require.NoError(t, err)
	assert.Equal(t, 0.0, res.EmissionsKg)
	assert.True(t, res.HasWarning(WarningUnknownFactor))
	assert.Contains(t, buf.String(), "emission factor not found")
	assert.Contains(t, buf.String(), "NOT_A_FUEL")
}

func TestCalculator_Scope1_UnknownUnit(t *testing.T) {
	res, err := NewCalculator(nil, nil).Scope1(FuelDiesel, 10, "barrel")

	require.NoError(t, err)
	assert.InDelta(t, 26.8, res.EmissionsKg, floatTolerance)
	assert.True(t, res.Degraded())
	assert.True(t, res.HasWarning(WarningUnknownUnit))
}

func TestCalculator_InvalidQuantity(t *testing.T) {
	calc := NewCalculator(nil, nil)

	for _, q := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := calc.Scope1(FuelDiesel, q, "L")
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = calc.Scope2(ElectricityIT, q, "kWh", nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = calc.Scope3(FreightRoad, q, "km", nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = calc.Scope3(FreightRoad, 100, "km", &Secondary{Quantity: q, Unit: "t"})
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = calc.Vehicle(VehicleTrip{VehicleType: "car_small", EuroClass: "euro6", FuelType: FuelDiesel, Distance: q})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}

	_, err := calc.Scope2(ElectricityIT, 100, "kWh", ptr(math.NaN()))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCalculator_Scope2(t *testing.T) {
	calc := NewCalculator(nil, nil)

	tests := []struct {
		name      string
		energy    string
		quantity  float64
		unit      string
		renewable *float64
		wantKg    float64
	}{
		{
			name:     "italian grid without override",
			energy:   ElectricityIT,
			quantity: 1000,
			unit:     "kWh",
			wantKg:   256,
		},
		{
			name:     "italian grid in MWh",
			energy:   ElectricityIT,
			quantity: 1,
			unit:     "MWh",
			wantKg:   256,
		},
		{
			name:      "italian grid with zero renewable override",
			energy:    ElectricityIT,
			quantity:  1000,
			unit:      "kWh",
			renewable: ptr(0),
			wantKg:    0.256 / (1 - 0.41) * 1000,
		},
		{
			name:      "italian grid with half renewable contract",
			energy:    ElectricityIT,
			quantity:  1000,
			unit:      "kWh",
			renewable: ptr(0.5),
			wantKg:    0.256 / (1 - 0.41) * 0.5 * 1000,
		},
		{
			name:      "italian grid fully renewable contract",
			energy:    ElectricityIT,
			quantity:  1000,
			unit:      "kWh",
			renewable: ptr(1),
			wantKg:    0,
		},
		{
			name:      "eu grid with override uses eu share",
			energy:    ElectricityEU,
			quantity:  1000,
			unit:      "kWh",
			renewable: ptr(0.2),
			wantKg:    0.275 / (1 - 0.38) * 0.8 * 1000,
		},
		{
			name:      "cogeneration ignores override",
			energy:    ElectricityCogeneration,
			quantity:  1000,
			unit:      "kWh",
			renewable: ptr(0.9),
			wantKg:    206,
		},
		{
			name:     "certified renewable is zero",
			energy:   ElectricityRenewable,
			quantity: 5000,
			unit:     "kWh",
			wantKg:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Scope2(tt.energy, tt.quantity, tt.unit, tt.renewable)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, res.EmissionsKg, 1e-6)
			assert.Equal(t, Scope2, res.Scope)
			assert.False(t, res.Degraded())
		})
	}
}

func TestCalculator_Scope2_RenewableBounds(t *testing.T) {
	calc := NewCalculator(nil, nil)

	for _, q := range []float64{0.5, 1, 1000, 1e6} {
		full, err := calc.Scope2(ElectricityIT, q, "kWh", ptr(1))
		require.NoError(t, err)
		none, err := calc.Scope2(ElectricityIT, q, "kWh", ptr(0))
		require.NoError(t, err)
		assert.Less(t, full.EmissionsKg, none.EmissionsKg, "q=%v", q)
	}
}

func TestCalculator_Scope2_ClampsRenewable(t *testing.T) {
	calc := NewCalculator(nil, nil)

	over, err := calc.Scope2(ElectricityIT, 1000, "kWh", ptr(1.5))
	require.NoError(t, err)
	assert.Equal(t, 0.0, over.EmissionsKg)
	assert.True(t, over.HasWarning(WarningRenewableClamped))

	under, err := calc.Scope2(ElectricityIT, 1000, "kWh", ptr(-0.3))
	require.NoError(t, err)
	zero, err := calc.Scope2(ElectricityIT, 1000, "kWh", ptr(0))
	require.NoError(t, err)
	assert.InDelta(t, zero.EmissionsKg, under.EmissionsKg, floatTolerance)
	assert.True(t, under.HasWarning(WarningRenewableClamped))
}

func TestCalculator_Scope2_UnknownEnergy(t *testing.T) {
	res, err := NewCalculator(nil, nil).Scope2("ELECTRICITY_MARS", 1000, "kWh", ptr(0.5))

	require.NoError(t, err)
	assert.Equal(t, 0.0, res.EmissionsKg)
	assert.True(t, res.HasWarning(WarningUnknownFactor))
}

func TestCalculator_Scope3(t *testing.T) {
	calc := NewCalculator(nil, nil)

	tests := []struct {
		name      string
		activity  string
		quantity  float64
		unit      string
		secondary *Secondary
		wantKg    float64
		wantWarn  WarningCode
	}{
		{
			name:      "road freight tonne-km",
			activity:  FreightRoad,
			quantity:  100,
			unit:      "km",
			secondary: &Secondary{Quantity: 5, Unit: "t"},
			wantKg:    53.5,
		},
		{
			name:      "road freight weight in kg",
			activity:  FreightRoad,
			quantity:  100,
			unit:      "km",
			secondary: &Secondary{Quantity: 5000, Unit: "kg"},
			wantKg:    53.5,
		},
		{
			name:      "rail freight distance in metres",
			activity:  FreightRail,
			quantity:  250_000,
			unit:      "m",
			secondary: &Secondary{Quantity: 10, Unit: "t"},
			wantKg:    0.028 * 250 * 10,
		},
		{
			name:     "freight without weight",
			activity: FreightSea,
			quantity: 1000,
			unit:     "km",
			wantKg:   16,
			wantWarn: WarningMissingFreightWeight,
		},
		{
			name:      "freight with weight quantity but no unit",
			activity:  FreightAir,
			quantity:  100,
			unit:      "km",
			secondary: &Secondary{Quantity: 2},
			wantKg:    113,
			wantWarn:  WarningMissingFreightWeight,
		},
		{
			name:     "business travel by car",
			activity: BusinessTravelCar,
			quantity: 500,
			unit:     "km",
			wantKg:   85.5,
		},
		{
			name:      "business travel ignores secondary",
			activity:  BusinessTravelTrain,
			quantity:  100,
			unit:      "mi",
			secondary: &Secondary{Quantity: 3, Unit: "t"},
			wantKg:    0.035 * 160.934,
		},
		{
			name:     "landfill tonnes",
			activity: WasteLandfill,
			quantity: 2,
			unit:     "t",
			wantKg:   934,
		},
		{
			name:     "recycled waste in kg",
			activity: WasteRecycled,
			quantity: 500,
			unit:     "kg",
			wantKg:   21.28 * 0.5,
		},
		{
			name:     "waste with transport unit is not converted",
			activity: WasteIncineration,
			quantity: 3,
			unit:     "km",
			wantKg:   21.32 * 3,
			wantWarn: WarningUnknownUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Scope3(tt.activity, tt.quantity, tt.unit, tt.secondary)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, res.EmissionsKg, 1e-6)
			assert.Equal(t, Scope3, res.Scope)
			if tt.wantWarn != "" {
				assert.True(t, res.HasWarning(tt.wantWarn), "expected warning %s, got %v", tt.wantWarn, res.Warnings)
			} else {
				assert.False(t, res.Degraded(), "unexpected warnings %v", res.Warnings)
			}
		})
	}
}

func TestCalculator_Scope3_UnknownActivity(t *testing.T) {
	res, err := NewCalculator(nil, nil).Scope3("FREIGHT_TELEPORT", 100, "km", &Secondary{Quantity: 1, Unit: "t"})

	require.NoError(t, err)
	assert.Equal(t, 0.0, res.EmissionsKg)
	assert.True(t, res.HasWarning(WarningUnknownFactor))
}

func TestCalculator_Vehicle(t *testing.T) {
	calc := NewCalculator(nil, nil)

	tests := []struct {
		name     string
		trip     VehicleTrip
		wantKg   float64
		wantTier VehicleTier
		wantWarn WarningCode
	}{
		{
			name:     "exact hybrid car",
			trip:     VehicleTrip{VehicleType: "car_small", EuroClass: "euro6", FuelType: FuelHybrid, Distance: 1000},
			wantKg:   65,
			wantTier: TierExact,
		},
		{
			name:     "hybrid car older euro class falls back",
			trip:     VehicleTrip{VehicleType: "car_small", EuroClass: "euro2", FuelType: FuelHybrid, Distance: 1000},
			wantKg:   65,
			wantTier: TierClosestEuroClass,
			wantWarn: WarningVehicleClosestEuroClass,
		},
		{
			name:     "articulated electric truck uses default",
			trip:     VehicleTrip{VehicleType: "truck_articulated", EuroClass: "euro6", FuelType: FuelElectric, Distance: 100},
			wantKg:   17,
			wantTier: TierDefault,
			wantWarn: WarningVehicleDefault,
		},
		{
			name: "distance in miles",
			trip: VehicleTrip{VehicleType: "car_small", EuroClass: "euro6", FuelType: FuelHybrid,
				Distance: 100, DistanceUnit: "mi"},
			wantKg:   0.065 * 160.934,
			wantTier: TierExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Vehicle(tt.trip)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, res.EmissionsKg, 1e-6)
			assert.Equal(t, Scope1, res.Scope)
			assert.Equal(t, CategoryVehicle, res.Factor.Category)
			require.NotNil(t, res.Vehicle)
			assert.Equal(t, tt.wantTier, res.Vehicle.Tier)
			if tt.wantWarn != "" {
				assert.True(t, res.HasWarning(tt.wantWarn))
			} else {
				assert.False(t, res.Degraded())
			}
		})
	}
}

func TestCalculator_ConcurrentUse(t *testing.T) {
	calc := NewCalculator(nil, nil)

	var wg sync.WaitGroup
	results := make([]float64, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := calc.Scope3(FreightRoad, 100, "km", &Secondary{Quantity: 5, Unit: "t"})
			if err == nil {
				results[i] = res.EmissionsKg
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.InDelta(t, 53.5, r, floatTolerance)
	}
}

func TestCalculator_CustomRegistry(t *testing.T) {
	reg, err := LoadRegistry([]byte(minimalDataset))
	require.NoError(t, err)
	calc := NewCalculator(reg, nil)

	res, err := calc.Scope3(FreightRoad, 10, "km", &Secondary{Quantity: 2, Unit: "t"})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.EmissionsKg, floatTolerance)

	// The minimal dataset has no WASTE table, so the weight is used as-is.
	assert.True(t, res.HasWarning(WarningUnknownUnit))

	res, err = calc.Scope1(FuelDiesel, 10, "L")
	require.NoError(t, err)
	assert.True(t, res.HasWarning(WarningUnknownFactor))
	assert.Same(t, reg, calc.Registry())
}

func TestResult_EmissionsTonnes(t *testing.T) {
	assert.Equal(t, 2.5, Result{EmissionsKg: 2500}.EmissionsTonnes())
}
