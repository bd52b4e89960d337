package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Approval is one entry of the finalization payload sent to the backend.
type Approval struct {
	ItemID      string              `json:"item_id"`
	Decision    Kind                `json:"decision"`
	CustomPrice decimal.NullDecimal `json:"custom_price"`
}

// Approvals flattens decisions, ordered by item id. CustomPrice is only set
// for Custom decisions.
func Approvals(decisions Decisions) []Approval {
	out := make([]Approval, 0, len(decisions))

	for id, d := range decisions {
		a := Approval{ItemID: id, Decision: d.Kind}
		if d.Kind == Custom {
			a.CustomPrice = d.CustomAmount
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ItemID < out[j].ItemID
	})

	return out
}

// Incomplete lists item ids whose Custom decision has no usable amount.
func Incomplete(decisions Decisions) []string {
	var ids []string
	for id, d := range decisions {
		if d.Kind == Custom && (!d.CustomAmount.Valid || d.CustomAmount.Decimal.IsNegative()) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
