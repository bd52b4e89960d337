package competition

import "github.com/shopspring/decimal"

type Positioning string

const (
	UnderMarket   Positioning = "UNDER_MARKET"
	MarketAverage Positioning = "MARKET_AVERAGE"
	Premium       Positioning = "PREMIUM"
)

// ItemInsight summarizes competitor prices for one menu item
type ItemInsight struct {
	SampleSize  int             `json:"sample_size"`
	Min         decimal.Decimal `json:"min"`
	Max         decimal.Decimal `json:"max"`
	Avg         decimal.Decimal `json:"avg"`
	Median      decimal.Decimal `json:"median"`
	Positioning Positioning     `json:"positioning"`
}
