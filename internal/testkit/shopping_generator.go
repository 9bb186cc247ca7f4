package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"stataid/domain/dataset"
)

// ShoppingGeneratorConfig configures the shopping data generator
type ShoppingGeneratorConfig struct {
	CustomerCount   int       `json:"customer_count"`
	AvgOrders       float64   `json:"avg_orders"`        // Poisson rate for order_count
	OrderTotalMean  float64   `json:"order_total_mean"`  // Normal mean for order_total
	OrderTotalStd   float64   `json:"order_total_std"`   // Normal std for order_total
	MissingRate     float64   `json:"missing_rate"`      // Chance any optional cell is blank
	MixedNoiseEvery int       `json:"mixed_noise_every"` // Every n-th order_total is "n/a" (0 = never)
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Seed            uint64    `json:"seed"`
}

// DefaultShoppingConfig returns sensible defaults for shopping data generation
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		CustomerCount:  1000,
		AvgOrders:      2.5,
		OrderTotalMean: 80,
		OrderTotalStd:  20,
		MissingRate:    0.02,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		Seed:           42,
	}
}

// ShoppingColumns is the column order of generated datasets
var ShoppingColumns = []string{
	"customer_id", "country", "signup_channel", "signup_date",
	"order_count", "order_total", "satisfaction",
}

var (
	countries    = []string{"US", "DE", "FR", "GB", "ES"}
	channels     = []string{"web", "mobile"}
	satisfaction = []string{"low", "medium", "high"}
)

// ShoppingDataGenerator generates a realistic customer table
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
	totals distuv.Normal
	orders distuv.Poisson
}

// NewShoppingDataGenerator creates a new shopping data generator.
// The same seed always yields the same dataset.
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	src := rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	return &ShoppingDataGenerator{
		config: config,
		rng:    rng,
		totals: distuv.Normal{Mu: config.OrderTotalMean, Sigma: config.OrderTotalStd, Src: rng},
		orders: distuv.Poisson{Lambda: config.AvgOrders, Src: rng},
	}
}

// Generate builds the dataset, one row per customer
func (g *ShoppingDataGenerator) Generate() *dataset.Dataset {
	rows := make([]dataset.Row, 0, g.config.CustomerCount)
	window := g.config.EndDate.Sub(g.config.StartDate)

	for i := 0; i < g.config.CustomerCount; i++ {
		signup := g.config.StartDate.Add(time.Duration(g.rng.Int64N(int64(window))))

		var total any = math.Round(g.totals.Rand()*100) / 100
		if g.config.MixedNoiseEvery > 0 && (i+1)%g.config.MixedNoiseEvery == 0 {
			total = "n/a"
		}

		row := dataset.Row{
			"customer_id":    fmt.Sprintf("customer_%04d", i+1),
			"country":        countries[g.rng.IntN(len(countries))],
			"signup_channel": channels[g.rng.IntN(len(channels))],
			"signup_date":    signup.Format("2006-01-02"),
			"order_count":    int(g.orders.Rand()),
			"order_total":    total,
			"satisfaction":   satisfaction[g.rng.IntN(len(satisfaction))],
		}
		for _, optional := range []string{"country", "order_total", "satisfaction"} {
			if g.rng.Float64() < g.config.MissingRate {
				row[optional] = ""
			}
		}
		rows = append(rows, row)
	}

	return dataset.New(ShoppingColumns, rows)
}
