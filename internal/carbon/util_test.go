package carbon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"within range", 0.42, 0.42},
		{"below min", -0.2, 0},
		{"above max", 1.5, 1},
		{"at min", 0, 0},
		{"at max", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, 0, 1))
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		q       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuantity("quantity", tt.q)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "170", formatFloat(170))
	assert.Equal(t, "0.41", formatFloat(0.41))
	assert.Equal(t, "-3", formatFloat(-3))
}
