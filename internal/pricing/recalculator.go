package pricing

import (
	"fmt"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	decreaseFactor = decimal.RequireFromString("0.9")
)

// Totals are kept at full precision. Call Rounded for display.
type Totals struct {
	TotalFoodCost  decimal.Decimal `json:"total_food_cost"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	AvgFoodCostPct decimal.Decimal `json:"avg_food_cost_pct"`
}

// Rounded returns currency at 2 places and the percentage at 1.
func (t Totals) Rounded() Totals {
	return Totals{
		TotalFoodCost:  t.TotalFoodCost.Round(2),
		TotalRevenue:   t.TotalRevenue.Round(2),
		TotalProfit:    t.TotalProfit.Round(2),
		AvgFoodCostPct: t.AvgFoodCostPct.Round(1),
	}
}

// Warning is a validation hint for the user; recomputation never fails on it.
type Warning struct {
	ItemID  string `json:"item_id"`
	Message string `json:"message"`
}

type Result struct {
	Totals   Totals    `json:"totals"`
	Warnings []Warning `json:"warnings"`
}

// Price applies a decision to an item.
//
//	Maintain        current price
//	Increase        suggested price, else current
//	Decrease        round2(suggested × 0.9), else current
//	Custom(amount)  amount when valid and non-negative, else current
//
// The error is only set for a Custom decision without a usable amount; the
// returned price is still the current-price fallback.
func Price(item menu.Item, d Decision) (decimal.Decimal, error) {
	switch d.Kind {
	case Increase:
		if item.SuggestedPrice.Valid {
			return item.SuggestedPrice.Decimal, nil
		}
	case Decrease:
		if item.SuggestedPrice.Valid {
			return item.SuggestedPrice.Decimal.Mul(decreaseFactor).Round(2), nil
		}
	case Custom:
		if !d.CustomAmount.Valid {
			if d.Input == "" {
				return item.CurrentPrice, fmt.Errorf("%w: no custom price for %q, using current price", ErrInvalidNumericInput, item.Name)
			}
			_, perr := menu.ParsePrice(d.Input)
			return item.CurrentPrice, fmt.Errorf("%w: custom price for %q rejected (%v), using current price", ErrInvalidNumericInput, item.Name, perr)
		}
		if d.CustomAmount.Decimal.IsNegative() {
			return item.CurrentPrice, fmt.Errorf("%w: negative custom price for %q, using current price", ErrInvalidNumericInput, item.Name)
		}
		return d.CustomAmount.Decimal, nil
	}
	return item.CurrentPrice, nil
}

// EffectivePrice is the price used for display and aggregation. A session
// decision wins, then a previously approved price, then the current price.
func EffectivePrice(item menu.Item, decisions Decisions) (decimal.Decimal, error) {
	if d, ok := decisions[item.ID]; ok {
		return Price(item, d)
	}
	if item.ApprovedPrice.Valid {
		return item.ApprovedPrice.Decimal, nil
	}
	return item.CurrentPrice, nil
}

// Evaluate recomputes the aggregate from scratch and collects warnings for
// decisions that fell back to the current price.
func Evaluate(items []menu.Item, decisions Decisions) Result {
	foodCost := decimal.Zero
	revenue := decimal.Zero
	warnings := []Warning{}

	for _, item := range items {
		foodCost = foodCost.Add(item.FoodCost)

		price, err := EffectivePrice(item, decisions)
		if err != nil {
			warnings = append(warnings, Warning{ItemID: item.ID, Message: err.Error()})
		}
		revenue = revenue.Add(price)
	}

	return Result{
		Totals: Totals{
			TotalFoodCost:  foodCost,
			TotalRevenue:   revenue,
			TotalProfit:    revenue.Sub(foodCost),
			AvgFoodCostPct: FoodCostPct(foodCost, revenue),
		},
		Warnings: warnings,
	}
}

// Aggregate returns the totals for items under decisions.
func Aggregate(items []menu.Item, decisions Decisions) Totals {
	return Evaluate(items, decisions).Totals
}

// FoodCostPct is cost / price × 100, or 0 when price is not positive.
func FoodCostPct(cost, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return cost.Div(price).Mul(hundred)
}

func ItemFoodCostPct(item menu.Item, price decimal.Decimal) decimal.Decimal {
	return FoodCostPct(item.FoodCost, price)
}
