package carbon

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Multiplier(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		category UnitCategory
		unit     string
		want     float64
	}{
		{UnitFuel, "L", 1},
		{UnitFuel, "kL", 1000},
		{UnitFuel, "t", 1000},
		{UnitEnergy, "kWh", 1},
		{UnitEnergy, "MWh", 1000},
		{UnitEnergy, "GWh", 1_000_000},
		{UnitTransport, "km", 1},
		{UnitTransport, "m", 0.001},
		{UnitTransport, "mi", 1.60934},
		{UnitWaste, "t", 1},
		{UnitWaste, "kg", 0.001},
	}

	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.unit, func(t *testing.T) {
			got, ok := reg.Multiplier(tt.category, tt.unit)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_BaseUnitsAreIdentity(t *testing.T) {
	reg := DefaultRegistry()

	base := map[UnitCategory]string{
		UnitFuel:      "L",
		UnitEnergy:    "kWh",
		UnitTransport: "km",
		UnitWaste:     "t",
	}
	for category, unit := range base {
		m, ok := reg.Multiplier(category, unit)
		require.True(t, ok, category)
		assert.Equal(t, 1.0, m, category)
	}
}

func TestRegistry_MultiplierOrIdentity_UnknownUnit(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	m, ok := DefaultRegistry().MultiplierOrIdentity(UnitFuel, "barrel")

	assert.False(t, ok)
	assert.Equal(t, 1.0, m)
	assert.Contains(t, buf.String(), "unknown unit")
	assert.Contains(t, buf.String(), `"unit":"barrel"`)
}

func TestRegistry_Multiplier_WrongCategory(t *testing.T) {
	_, ok := DefaultRegistry().Multiplier(UnitEnergy, "km")
	assert.False(t, ok)

	_, ok = DefaultRegistry().Multiplier(UnitCategory("VOLUME"), "L")
	assert.False(t, ok)
}

func TestRegistry_AvailableUnits(t *testing.T) {
	reg := DefaultRegistry()

	for _, category := range UnitCategories() {
		t.Run(string(category), func(t *testing.T) {
			opts := reg.AvailableUnits(category)
			require.NotEmpty(t, opts)
			for _, o := range opts {
				assert.NotEmpty(t, o.Value)
				assert.NotEmpty(t, o.Label)
			}
		})
	}

	energy := reg.AvailableUnits(UnitEnergy)
	assert.Equal(t, "kWh", energy[0].Value)

	assert.Empty(t, reg.AvailableUnits(UnitCategory("VOLUME")))
}

func TestRegistry_Normalize(t *testing.T) {
	reg := DefaultRegistry()

	q, warnings := reg.normalize(UnitEnergy, 2.5, "MWh")
	assert.Equal(t, 2500.0, q)
	assert.Empty(t, warnings)

	q, warnings = reg.normalize(UnitEnergy, 7, "therm")
	assert.Equal(t, 7.0, q)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningUnknownUnit, warnings[0].Code)
}
