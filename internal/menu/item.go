package menu

import "github.com/shopspring/decimal"

// Item is one priced line of an analyzed menu, as returned by the backend.
// FoodCost may exceed CurrentPrice; such items are loss-making and kept as is.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`

	CurrentPrice   decimal.Decimal     `json:"current_price"`
	FoodCost       decimal.Decimal     `json:"food_cost"`
	SuggestedPrice decimal.NullDecimal `json:"suggested_price"`
	ApprovedPrice  decimal.NullDecimal `json:"approved_price"`

	// decision persisted by an earlier approval, display only
	PriceDecision string `json:"price_decision,omitempty"`

	Ingredients      []Ingredient      `json:"ingredients,omitempty"`
	CompetitorPrices []CompetitorPrice `json:"competitor_prices,omitempty"`
}

type Ingredient struct {
	Name          string          `json:"name"`
	Quantity      string          `json:"quantity,omitempty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

type CompetitorPrice struct {
	Restaurant string          `json:"restaurant"`
	Price      decimal.Decimal `json:"price"`
	Distance   string          `json:"distance,omitempty"`
}

// Find returns the index of the item with the given id, or -1.
func Find(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
