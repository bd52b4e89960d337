package layout

import (
	"slices"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

// Page is a fixed-capacity bucket of items for print layout.
type Page struct {
	PageNumber int         `json:"page_number"`
	Items      []menu.Item `json:"items"`
}

// Capacity is floor(base capacity × density multiplier), never below 1.
func Capacity(size PageSizeSpec, l LayoutSpec) int {
	c := decimal.NewFromInt(int64(size.BaseItemCapacity)).
		Mul(l.DensityMultiplier).
		Floor().
		IntPart()

	if c < 1 {
		return 1
	}
	return int(c)
}

// Paginate splits items into consecutive full pages with the remainder on the
// last page. An empty list yields one empty page. Pages never share backing
// arrays with the input.
func Paginate(items []menu.Item, size PageSizeSpec, l LayoutSpec) []Page {
	capacity := Capacity(size, l)

	if len(items) == 0 {
		return []Page{{PageNumber: 1, Items: []menu.Item{}}}
	}

	pages := make([]Page, 0, (len(items)+capacity-1)/capacity)
	for start := 0; start < len(items); start += capacity {
		end := min(start+capacity, len(items))
		pages = append(pages, Page{
			PageNumber: len(pages) + 1,
			Items:      slices.Clone(items[start:end]),
		})
	}

	return pages
}

// PaginateByID resolves the ids first and fails on unknown ones.
func PaginateByID(items []menu.Item, pageSizeID, layoutID string) ([]Page, error) {
	size, l, err := Resolve(pageSizeID, layoutID)
	if err != nil {
		return nil, err
	}
	return Paginate(items, size, l), nil
}
