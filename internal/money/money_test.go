package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseBRL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"(10,00)", "-10"},
		{"-5", "-5"},
		{"1.500", "1500"},
		{"10.5", "10.5"},
		{"0.125", "0.13"},
		{"1.234.567", "1234567"},
		{"R$ 99,90", "99.9"},
		{"-R$ 1.234,56", "-1234.56"},
		{"+3,1", "3.1"},
	}
	for _, tt := range tests {
		got, err := ParseBRL(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.True(t, dec(tt.want).Equal(got), "ParseBRL(%q) = %s, want %s", tt.input, got, tt.want)
	}
}

func TestParseBRL_Errors(t *testing.T) {
	_, err := ParseBRL("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	for _, input := range []string{"abc", "12a,00", "R$", ",", "1-2", "1,234", "1.000,505"} {
		_, err := ParseBRL(input)
		assert.Error(t, err, "expected error for %q", input)
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "R$ 0,00"},
		{"0.5", "R$ 0,50"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.8", "R$ 1.234.567,80"},
		{"100", "R$ 100,00"},
		{"-1234.56", "-R$ 1.234,56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBRL(dec(tt.input)))
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "1", "999.99", "1000", "123456.78", "-42.1", "1000000"} {
		d := dec(s)
		got, err := ParseBRL(FormatBRL(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(got), "round trip %s -> %s", s, got)
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(123456), Cents(dec("1234.56")))
	assert.Equal(t, int64(1), Cents(dec("0.005")))
	assert.True(t, dec("12.34").Equal(FromCents(1234)))
}

func TestHasAtMostTwoPlaces(t *testing.T) {
	assert.True(t, HasAtMostTwoPlaces(dec("10")))
	assert.True(t, HasAtMostTwoPlaces(dec("10.1")))
	assert.True(t, HasAtMostTwoPlaces(dec("10.12")))
	assert.False(t, HasAtMostTwoPlaces(dec("10.123")))
}

func TestSplit(t *testing.T) {
	parts := Split(dec("100"), 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "33.34", parts[0].StringFixed(2))
	assert.Equal(t, "33.33", parts[1].StringFixed(2))
	assert.Equal(t, "33.33", parts[2].StringFixed(2))

	sum := decimal.Zero
	for _, p := range Split(dec("1000.01"), 7) {
		sum = sum.Add(p)
	}
	assert.True(t, dec("1000.01").Equal(sum))

	assert.Nil(t, Split(dec("10"), 0))
}
