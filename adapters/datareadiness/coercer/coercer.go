package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"stataid/domain/dataset"
)

// TypeCoercer decides, cell by cell, whether a value counts as a number or a date
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	Lenient     bool     `json:"lenient"`      // Strip currency, percent, thousands separators, (negatives)
	DateLayouts []string `json:"date_layouts"` // Layouts tried in order when detecting dates
}

// DefaultCoercionConfig returns strict number parsing and the common date layouts
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		Lenient: false,
		DateLayouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
			"01/02/2006",
			"2006/01/02",
			"02-Jan-2006",
			"Jan 2, 2006",
		},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if len(config.DateLayouts) == 0 {
		config.DateLayouts = DefaultCoercionConfig().DateLayouts
	}
	return &TypeCoercer{config: config}
}

// ParseNumber reports whether a non-missing cell is numeric and returns its value.
// Go numeric kinds are numbers; text must parse in full; bools are text.
func (c *TypeCoercer) ParseNumber(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		return c.parseText(v)
	case *string:
		if v == nil {
			return 0, false
		}
		return c.parseText(*v)
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func (c *TypeCoercer) parseText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, ok := parseFinite(s); ok {
		return f, true
	}
	if !c.config.Lenient {
		return 0, false
	}
	return parseFinite(cleanNumeric(s))
}

// parseFinite rejects "NaN", "Inf" and overflow, which ParseFloat otherwise accepts
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// cleanNumeric handles international formats: parentheses for negatives,
// European decimals, currency symbols and percent signs
func cleanNumeric(s string) string {
	cleanVal := s

	// (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(strings.ReplaceAll(cleanVal, "%", ""))

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 when the comma comes last with a short tail
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 2 && commaIdx > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// A lone comma followed by exactly three digits is a thousands separator
		commaIdx := strings.LastIndex(cleanVal, ",")
		if strings.Count(cleanVal, ",") == 1 && len(cleanVal)-commaIdx-1 != 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}
	return cleanVal
}

// IsDate reports whether a text cell parses under one of the date layouts.
// Bare integers are never dates here; they are numbers.
func (c *TypeCoercer) IsDate(raw any) bool {
	s := dataset.Text(raw)
	if s == "" {
		return false
	}
	for _, layout := range c.config.DateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
