package competition

import (
	"sort"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

var (
	lowerBand = decimal.RequireFromString("0.9")
	upperBand = decimal.RequireFromString("1.1")
	two       = decimal.NewFromInt(2)
)

// Insight compares price with the item's competitor prices.
// Returns nil when the item has no competitor data.
func Insight(item menu.Item, price decimal.Decimal) *ItemInsight {
	if len(item.CompetitorPrices) == 0 {
		return nil
	}

	values := make([]decimal.Decimal, 0, len(item.CompetitorPrices))
	for _, c := range item.CompetitorPrices {
		values = append(values, c.Price)
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].LessThan(values[j])
	})

	sum := decimal.Sum(values[0], values[1:]...)
	median := Median(values)

	return &ItemInsight{
		SampleSize:  len(values),
		Min:         values[0],
		Max:         values[len(values)-1],
		Avg:         sum.Div(decimal.NewFromInt(int64(len(values)))),
		Median:      median,
		Positioning: DeterminePosition(price, median),
	}
}

// Median of an ascending slice; mean of the middle pair for even lengths.
func Median(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(two)
}

func DeterminePosition(price, median decimal.Decimal) Positioning {
	switch {
	case price.LessThan(median.Mul(lowerBand)):
		return UnderMarket
	case price.GreaterThan(median.Mul(upperBand)):
		return Premium
	default:
		return MarketAverage
	}
}
