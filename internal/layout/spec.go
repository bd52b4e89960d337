package layout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidConfiguration is returned for unknown page-size or layout ids.
var ErrInvalidConfiguration = errors.New("invalid layout configuration")

const (
	DefaultPageSize = "letter"
	DefaultLayout   = "single"
)

// PageSizeSpec is a physical or display page format. Width and Height are points.
type PageSizeSpec struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	BaseItemCapacity int    `json:"base_item_capacity"`
}

// LayoutSpec is a column arrangement. DensityMultiplier scales the single-column
// capacity of a page.
type LayoutSpec struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	ColumnCount       int             `json:"column_count"`
	DensityMultiplier decimal.Decimal `json:"density_multiplier"`
}

var pageSizes = []PageSizeSpec{
	{ID: "letter", Name: "Letter", Width: 612, Height: 792, BaseItemCapacity: 12},
	{ID: "legal", Name: "Legal", Width: 612, Height: 1008, BaseItemCapacity: 16},
	{ID: "tabloid", Name: "Tabloid", Width: 792, Height: 1224, BaseItemCapacity: 24},
	{ID: "half-letter", Name: "Half Letter", Width: 396, Height: 612, BaseItemCapacity: 6},
	{ID: "digital", Name: "Digital", Width: 540, Height: 960, BaseItemCapacity: 10},
}

var layouts = []LayoutSpec{
	{ID: "single", Name: "Single Column", ColumnCount: 1, DensityMultiplier: decimal.RequireFromString("1.0")},
	{ID: "double", Name: "Double Column", ColumnCount: 2, DensityMultiplier: decimal.RequireFromString("1.8")},
	{ID: "triple", Name: "Triple Column", ColumnCount: 3, DensityMultiplier: decimal.RequireFromString("2.5")},
	{ID: "grid", Name: "Grid", ColumnCount: 3, DensityMultiplier: decimal.RequireFromString("2.0")},
	{ID: "centered", Name: "Centered", ColumnCount: 1, DensityMultiplier: decimal.RequireFromString("0.75")},
}

// PageSizes returns the known page sizes in catalog order.
func PageSizes() []PageSizeSpec {
	out := make([]PageSizeSpec, len(pageSizes))
	copy(out, pageSizes)
	return out
}

// Layouts returns the known layouts in catalog order.
func Layouts() []LayoutSpec {
	out := make([]LayoutSpec, len(layouts))
	copy(out, layouts)
	return out
}

func LookupPageSize(id string) (PageSizeSpec, bool) {
	for _, p := range pageSizes {
		if p.ID == id {
			return p, true
		}
	}
	return PageSizeSpec{}, false
}

func LookupLayout(id string) (LayoutSpec, bool) {
	for _, l := range layouts {
		if l.ID == id {
			return l, true
		}
	}
	return LayoutSpec{}, false
}

// Resolve maps ids onto the known specs. Unknown ids are an
// ErrInvalidConfiguration, never a silent default.
func Resolve(pageSizeID, layoutID string) (PageSizeSpec, LayoutSpec, error) {
	size, ok := LookupPageSize(pageSizeID)
	if !ok {
		return PageSizeSpec{}, LayoutSpec{}, fmt.Errorf("%w: unknown page size %q", ErrInvalidConfiguration, pageSizeID)
	}

	l, ok := LookupLayout(layoutID)
	if !ok {
		return PageSizeSpec{}, LayoutSpec{}, fmt.Errorf("%w: unknown layout %q", ErrInvalidConfiguration, layoutID)
	}

	return size, l, nil
}

// ResolveOrDefault is for callers that opted into the letter/single fallback.
// Each id falls back independently.
func ResolveOrDefault(pageSizeID, layoutID string) (PageSizeSpec, LayoutSpec) {
	size, ok := LookupPageSize(pageSizeID)
	if !ok {
		size, _ = LookupPageSize(DefaultPageSize)
	}

	l, ok := LookupLayout(layoutID)
	if !ok {
		l, _ = LookupLayout(DefaultLayout)
	}

	return size, l
}
