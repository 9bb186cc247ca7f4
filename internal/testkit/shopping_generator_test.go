package testkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShoppingDataGenerator_Basic(t *testing.T) {
	config := ShoppingGeneratorConfig{
		CustomerCount:  10, // Small for testing
		AvgOrders:      1.5,
		OrderTotalMean: 50,
		OrderTotalStd:  5,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		Seed:           42,
	}

	ds := NewShoppingDataGenerator(config).Generate()
	if ds.RowCount() != 10 {
		t.Fatalf("Expected 10 rows, got %d", ds.RowCount())
	}

	for i, row := range ds.Rows {
		if row["customer_id"] == "" {
			t.Errorf("Row %d has empty customer id", i)
		}
		if n, ok := row["order_count"].(int); !ok || n < 0 {
			t.Errorf("Row %d has invalid order count %v", i, row["order_count"])
		}
		date, err := time.Parse("2006-01-02", row["signup_date"].(string))
		if err != nil || date.Before(config.StartDate) || date.After(config.EndDate) {
			t.Errorf("Row %d signup date %v outside window", i, row["signup_date"])
		}
	}
}

func TestShoppingDataGenerator_Deterministic(t *testing.T) {
	config := DefaultShoppingConfig()
	config.CustomerCount = 50
	config.MixedNoiseEvery = 7
	config.MissingRate = 0

	first := NewShoppingDataGenerator(config).Generate()
	second := NewShoppingDataGenerator(config).Generate()
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, "n/a", first.Rows[6]["order_total"])
}
