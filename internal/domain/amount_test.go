package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleToBaseUnits_PowersOfTen(t *testing.T) {
	// For integer amounts, scale(a, d) == a * 10^d for every supported d.
	for decimals := uint8(0); decimals <= MaxDecimals; decimals++ {
		pow := uint64(1)
		for i := uint8(0); i < decimals; i++ {
			pow *= 10
		}

		for _, a := range []uint64{0, 1, 7, 100, 12345} {
			got, err := ScaleToBaseUnits(fmt.Sprintf("%d", a), decimals)
			require.NoError(t, err, "decimals=%d amount=%d", decimals, a)
			assert.Equal(t, a*pow, got, "decimals=%d amount=%d", decimals, a)
		}
	}
}

func TestScaleToBaseUnits_Fractions(t *testing.T) {
	testCases := []struct {
		name     string
		human    string
		decimals uint8
		want     uint64
	}{
		{"half_at_nine", "1.5", 9, 1_500_000_000},
		{"smallest_unit", "0.000000001", 9, 1},
		{"no_leading_zero", ".25", 2, 25},
		{"trailing_dot_zeroes", "3.000", 2, 300},
		{"six_decimals", "2.345678", 6, 2_345_678},
		{"excess_trailing_zeros_ok", "1.2300000000", 2, 123},
		{"zero", "0", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ScaleToBaseUnits(tc.human, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScaleToBaseUnits_Rejects(t *testing.T) {
	testCases := []struct {
		name     string
		human    string
		decimals uint8
	}{
		{"negative", "-1", 9},
		{"empty", "", 9},
		{"spaces_only", "   ", 9},
		{"lone_dot", ".", 9},
		{"letters", "12a", 9},
		{"too_precise", "1.1234567891", 9},
		{"precision_at_zero_decimals", "1.5", 0},
		{"overflow", "18446744073709551616", 0},
		{"overflow_after_scaling", "18446744073.709551616", 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ScaleToBaseUnits(tc.human, tc.decimals)
			assert.Error(t, err)
		})
	}
}

func TestFormatBaseUnits_RoundTrip(t *testing.T) {
	// Formatting recovers the human amount modulo trailing-zero trimming.
	testCases := []struct {
		human    string
		decimals uint8
		want     string
	}{
		{"100", 9, "100"},
		{"1.5", 9, "1.5"},
		{"1.50", 9, "1.5"},
		{"0.000000001", 9, "0.000000001"},
		{"42", 0, "42"},
		{"7.25", 2, "7.25"},
	}

	for _, tc := range testCases {
		raw, err := ScaleToBaseUnits(tc.human, tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.want, FormatBaseUnits(raw, tc.decimals), "human=%s", tc.human)
	}
}

func TestFormatBaseUnits_CreateScenarioSupply(t *testing.T) {
	// 100 whole tokens at decimals=9 is exactly 100_000_000_000 base units.
	raw, err := ScaleToBaseUnits("100", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000_000), raw)
	assert.Equal(t, "100", FormatBaseUnits(raw, 9))
}
