package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"2", 2},
		{"0.75", 0.75},
		{".5", 0.5},
		{"1/2", 0.5},
		{"3 / 4", 0.75},
		{"1 1/2", 1.5},
		{"2 1/4", 2.25},
		{"½", 0.5},
		{"1½", 1.5},
		{"1 ½", 1.5},
		{"¾", 0.75},
		{"  3  ", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1/0", "a few", "1-2"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAmount(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparsableAmount))
		})
	}
}

func TestParseAmountOrDefault(t *testing.T) {
	assert.Equal(t, 1.0, ParseAmountOrDefault("some", 1))
	assert.Equal(t, 0.5, ParseAmountOrDefault("1/2", 1))
}

func TestNormalizeFractions(t *testing.T) {
	assert.Equal(t, "1 1/2 cups", NormalizeFractions("1½ cups"))
	assert.Equal(t, "1/4 tsp", NormalizeFractions("¼ tsp"))
	assert.Equal(t, "", NormalizeFractions(""))
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 0.33, RoundAmount(1.0/3))
	assert.Equal(t, 0.67, RoundAmount(2.0/3))
	assert.Equal(t, 2.0, RoundAmount(2))
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{2, "2"},
		{0.5, "½"},
		{1.5, "1½"},
		{0.33, "⅓"},
		{0.25, "¼"},
		{2.75, "2¾"},
		{0.7, "⅔"},
		{1.005, "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.input))
		})
	}
}
