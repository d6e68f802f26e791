package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"1234.50", 123450, true},
		{"0.01", 1, true},
		{"-250.75", -25075, true},
		{"100", 10000, true},
		{"0.005", 0, false},
		{"19.999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)

			got, ok := MinorUnits(d)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "1234.50", FromMinorUnits(123450).StringFixed(2))
	assert.Equal(t, "0.00", FromMinorUnits(0).StringFixed(2))
	assert.Equal(t, "-0.01", FromMinorUnits(-1).StringFixed(2))
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 123450, -999999} {
		got, ok := MinorUnits(FromMinorUnits(n))
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
}
