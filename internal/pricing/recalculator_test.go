package pricing

import (
	"errors"
	"strings"
	"testing"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertDec(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got.String())
	}
}

func TestPrice_DecisionTable(t *testing.T) {
	item := menu.Item{
		ID:             "1",
		Name:           "Burger",
		CurrentPrice:   dec("15.00"),
		SuggestedPrice: nullDec("20.00"),
	}

	cases := []struct {
		name string
		d    Decision
		want string
	}{
		{"maintain", Decision{Kind: Maintain}, "15"},
		{"increase", Decision{Kind: Increase}, "20"},
		{"decrease", Decision{Kind: Decrease}, "18.00"},
		{"custom", CustomPrice(dec("17.25")), "17.25"},
		{"zero custom", CustomPrice(decimal.Zero), "0"},
	}

	for _, tc := range cases {
		got, err := Price(item, tc.d)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		assertDec(t, tc.name, got, tc.want)
	}
}

func TestPrice_DecreaseRoundsToCents(t *testing.T) {
	item := menu.Item{ID: "x", CurrentPrice: dec("9"), SuggestedPrice: nullDec("12.99")}

	got, _ := Price(item, Decision{Kind: Decrease})
	assertDec(t, "decrease", got, "11.69")
}

func TestPrice_FallsBackWithoutSuggestion(t *testing.T) {
	item := menu.Item{ID: "1", CurrentPrice: dec("12.50")}

	for _, k := range []Kind{Increase, Decrease} {
		got, err := Price(item, Decision{Kind: k})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", k, err)
		}
		assertDec(t, string(k), got, "12.50")
	}
}

func TestPrice_InvalidCustomFallsBack(t *testing.T) {
	item := menu.Item{ID: "1", Name: "Soup", CurrentPrice: dec("8")}

	got, err := Price(item, Decision{Kind: Custom})
	if !errors.Is(err, ErrInvalidNumericInput) {
		t.Fatalf("expected ErrInvalidNumericInput, got %v", err)
	}
	assertDec(t, "missing custom", got, "8")

	got, err = Price(item, CustomPrice(dec("-3")))
	if !errors.Is(err, ErrInvalidNumericInput) {
		t.Fatalf("expected ErrInvalidNumericInput for negative amount, got %v", err)
	}
	assertDec(t, "negative custom", got, "8")
}

func TestCustomFromInput_WarningNamesTheProblem(t *testing.T) {
	item := menu.Item{ID: "1", Name: "Soup", CurrentPrice: dec("8")}

	tests := []struct {
		input string
		want  string
	}{
		{"", "no custom price"},
		{"abc", "is not a number"},
		{"-5", "is negative"},
	}

	for _, tt := range tests {
		d := CustomFromInput(tt.input)
		if d.CustomAmount.Valid {
			t.Fatalf("%q: expected no usable amount", tt.input)
		}

		got, err := Price(item, d)
		if !errors.Is(err, ErrInvalidNumericInput) {
			t.Fatalf("%q: expected ErrInvalidNumericInput, got %v", tt.input, err)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: expected message to contain %q, got %q", tt.input, tt.want, err.Error())
		}
		assertDec(t, tt.input, got, "8")
	}

	d := CustomFromInput(" $12.40 ")
	if !d.CustomAmount.Valid || d.Input != "" {
		t.Fatalf("expected parsed amount, got %+v", d)
	}
	got, err := Price(item, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "parsed custom", got, "12.40")
}

func TestEffectivePrice_ApprovedPricePrecedence(t *testing.T) {
	item := menu.Item{
		ID:             "1",
		CurrentPrice:   dec("10"),
		SuggestedPrice: nullDec("14"),
		ApprovedPrice:  nullDec("12"),
	}

	got, _ := EffectivePrice(item, nil)
	assertDec(t, "undecided with approved price", got, "12")

	got, _ = EffectivePrice(item, Decisions{"1": {Kind: Increase}})
	assertDec(t, "new decision supersedes approved", got, "14")

	got, _ = EffectivePrice(menu.Item{ID: "2", CurrentPrice: dec("7")}, Decisions{})
	assertDec(t, "undecided", got, "7")
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil, Decisions{})

	assertDec(t, "food cost", totals.TotalFoodCost, "0")
	assertDec(t, "revenue", totals.TotalRevenue, "0")
	assertDec(t, "profit", totals.TotalProfit, "0")
	assertDec(t, "pct", totals.AvgFoodCostPct, "0")
}

func TestAggregate_Scenario(t *testing.T) {
	items := []menu.Item{
		{ID: "1", CurrentPrice: dec("10"), FoodCost: dec("3")},
		{ID: "2", CurrentPrice: dec("20"), FoodCost: dec("8"), SuggestedPrice: nullDec("25")},
	}
	decisions := Decisions{
		"1": {Kind: Maintain},
		"2": {Kind: Increase},
	}

	totals := Aggregate(items, decisions)

	assertDec(t, "revenue", totals.TotalRevenue, "35")
	assertDec(t, "food cost", totals.TotalFoodCost, "11")
	assertDec(t, "profit", totals.TotalProfit, "24")
	assertDec(t, "pct", totals.Rounded().AvgFoodCostPct, "31.4")
}

func TestAggregate_LossMakingItem(t *testing.T) {
	items := []menu.Item{
		{ID: "1", CurrentPrice: dec("5"), FoodCost: dec("7.50")},
	}

	totals := Aggregate(items, nil)

	assertDec(t, "profit", totals.TotalProfit, "-2.5")
	assertDec(t, "pct", totals.AvgFoodCostPct, "150")
}

func TestAggregate_ZeroRevenueGuard(t *testing.T) {
	items := []menu.Item{
		{ID: "1", CurrentPrice: decimal.Zero, FoodCost: dec("4")},
	}

	totals := Aggregate(items, nil)

	assertDec(t, "pct", totals.AvgFoodCostPct, "0")
	assertDec(t, "profit", totals.TotalProfit, "-4")
}

func TestAggregate_FullPrecisionUntilRounded(t *testing.T) {
	items := make([]menu.Item, 3)
	for i := range items {
		items[i] = menu.Item{ID: string(rune('a' + i)), CurrentPrice: dec("0.333"), FoodCost: dec("0.111")}
	}

	totals := Aggregate(items, nil)

	assertDec(t, "raw revenue", totals.TotalRevenue, "0.999")
	assertDec(t, "rounded revenue", totals.Rounded().TotalRevenue, "1.00")
}

func TestEvaluate_WarnsOnInvalidCustom(t *testing.T) {
	items := []menu.Item{
		{ID: "1", Name: "Tacos", CurrentPrice: dec("9"), FoodCost: dec("2")},
		{ID: "2", Name: "Nachos", CurrentPrice: dec("6"), FoodCost: dec("1")},
	}
	decisions := Decisions{"1": {Kind: Custom}}

	res := Evaluate(items, decisions)

	if len(res.Warnings) != 1 || res.Warnings[0].ItemID != "1" {
		t.Fatalf("expected one warning for item 1, got %+v", res.Warnings)
	}
	assertDec(t, "revenue", res.Totals.TotalRevenue, "15")
}

func TestDecisions_WithWithoutDoNotMutate(t *testing.T) {
	base := Decisions{"1": {Kind: Maintain}}

	next := base.With("2", Decision{Kind: Increase})
	if _, ok := base["2"]; ok {
		t.Fatal("With mutated the receiver")
	}
	if len(next) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(next))
	}

	removed := next.Without("1")
	if _, ok := next["1"]; !ok {
		t.Fatal("Without mutated the receiver")
	}
	if len(removed) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(removed))
	}
}

func TestItemFoodCostPct(t *testing.T) {
	item := menu.Item{ID: "a", FoodCost: dec("3")}

	assertDec(t, "pct", ItemFoodCostPct(item, dec("12")), "25")
	assertDec(t, "zero price", ItemFoodCostPct(item, decimal.Zero), "0")
}
