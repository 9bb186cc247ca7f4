package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberStrict(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float", 3.5, 3.5, true},
		{"int", 42, 42, true},
		{"numeric text", " 12.5 ", 12.5, true},
		{"scientific", "1e3", 1000, true},
		{"negative", "-7", -7, true},
		{"partial", "12abc", 0, false},
		{"currency rejected when strict", "$45", 0, false},
		{"nan text", "NaN", 0, false},
		{"inf text", "Inf", 0, false},
		{"bool is text", true, 0, false},
		{"word", "north", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ParseNumber(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestParseNumberLenient(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{Lenient: true})

	tests := []struct {
		value string
		want  float64
	}{
		{"$45,000", 45000},
		{"(1,200)", -1200},
		{"12%", 12},
		{"1.234,56", 1234.56},
		{"3,5", 3.5},
		{"€ 99", 99},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := c.ParseNumber(tt.value)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok := c.ParseNumber("north")
	assert.False(t, ok)
}

func TestIsDate(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.True(t, c.IsDate("2024-03-01"))
	assert.True(t, c.IsDate("2024-03-01T10:00:00Z"))
	assert.True(t, c.IsDate("03/01/2024"))
	assert.False(t, c.IsDate("20240301"))
	assert.False(t, c.IsDate("March"))
	assert.False(t, c.IsDate(nil))
}
