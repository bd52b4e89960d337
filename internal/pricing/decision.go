package pricing

import (
	"errors"
	"fmt"
	"strings"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	ErrUnknownDecision     = errors.New("unknown pricing decision")
	ErrNoDecisions         = errors.New("please make pricing decisions for at least one item")
)

// Kind is the per-item pricing choice made during a review pass.
type Kind string

const (
	Maintain Kind = "maintain"
	Increase Kind = "increase"
	Decrease Kind = "decrease"
	Custom   Kind = "custom"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Maintain, Increase, Decrease, Custom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, s)
	}
}

// Decision is a pricing choice for one item. CustomAmount is only meaningful
// for Custom and stays invalid when the user typed something unusable; Input
// then keeps what they typed.
type Decision struct {
	Kind         Kind                `json:"kind"`
	CustomAmount decimal.NullDecimal `json:"custom_amount"`
	Input        string              `json:"input,omitempty"`
}

// CustomPrice builds a Custom decision carrying amount.
func CustomPrice(amount decimal.Decimal) Decision {
	return Decision{Kind: Custom, CustomAmount: decimal.NewNullDecimal(amount)}
}

// CustomFromInput builds a Custom decision from user-entered text.
func CustomFromInput(raw string) Decision {
	amount, err := ParseCustomAmount(raw)
	if err != nil {
		return Decision{Kind: Custom, Input: strings.TrimSpace(raw)}
	}
	return CustomPrice(amount)
}

// Decisions maps item id to decision. A missing entry means undecided.
// Treat values as immutable: With and Without return fresh maps.
type Decisions map[string]Decision

func (d Decisions) With(itemID string, dec Decision) Decisions {
	out := make(Decisions, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[itemID] = dec
	return out
}

func (d Decisions) Without(itemID string) Decisions {
	out := make(Decisions, len(d))
	for k, v := range d {
		if k != itemID {
			out[k] = v
		}
	}
	return out
}

// ParseCustomAmount reads a user-entered price. Empty, non-numeric and
// negative input all fail with ErrInvalidNumericInput.
func ParseCustomAmount(raw string) (decimal.Decimal, error) {
	amount, err := menu.ParsePrice(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: custom %v", ErrInvalidNumericInput, err)
	}
	return amount, nil
}
