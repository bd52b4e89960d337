package review

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"menumaker/internal/competition"
	"menumaker/internal/layout"
	"menumaker/internal/menu"
	"menumaker/internal/pricing"

	"github.com/shopspring/decimal"
)

// Session is one user's review pass over a menu: the items as last loaded
// from the backend, the decisions made so far and the chosen print layout.
type Session struct {
	ID         string            `json:"id"`
	OwnerID    string            `json:"owner_id"`
	JobID      string            `json:"job_id,omitempty"`
	Name       string            `json:"name"`
	Items      []menu.Item       `json:"items"`
	Decisions  pricing.Decisions `json:"decisions"`
	PageSizeID string            `json:"page_size"`
	LayoutID   string            `json:"layout"`
	ArchiveURL string            `json:"archive_url,omitempty"`
	MenuID     string            `json:"menu_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone returns a copy that shares no slices or maps with s.
func (s *Session) Clone() *Session {
	out := *s
	out.Items = slices.Clone(s.Items)
	out.Decisions = maps.Clone(s.Decisions)
	return &out
}

// Summary is the list entry for a session.
type Summary struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	JobID         string    `json:"job_id,omitempty"`
	Name          string    `json:"name"`
	ItemCount     int       `json:"item_count"`
	DecisionCount int       `json:"decision_count"`
	PageSizeID    string    `json:"page_size"`
	LayoutID      string    `json:"layout"`
	MenuID        string    `json:"menu_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Session) Summary() Summary {
	return Summary{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		JobID:         s.JobID,
		Name:          s.Name,
		ItemCount:     len(s.Items),
		DecisionCount: len(s.Decisions),
		PageSizeID:    s.PageSizeID,
		LayoutID:      s.LayoutID,
		MenuID:        s.MenuID,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ItemView is an item with everything derived from the current decisions.
type ItemView struct {
	menu.Item
	Decision       *pricing.Decision        `json:"decision,omitempty"`
	EffectivePrice decimal.Decimal          `json:"effective_price"`
	FoodCostPct    decimal.Decimal          `json:"food_cost_pct"`
	Profit         decimal.Decimal          `json:"profit"`
	Insight        *competition.ItemInsight `json:"insight,omitempty"`
}

// View is the full rendering of a session. It is recomputed on every read.
type View struct {
	Session  *Session            `json:"session"`
	PageSize layout.PageSizeSpec `json:"page_size"`
	Layout   layout.LayoutSpec   `json:"layout"`
	Capacity int                 `json:"capacity"`
	Pages    []layout.Page       `json:"pages"`
	Items    []ItemView          `json:"items"`
	Totals   pricing.Totals      `json:"totals"`
	Warnings []pricing.Warning   `json:"warnings"`
}

// BuildView derives pages, totals and per-item figures for s.
func BuildView(s *Session) *View {
	size, l := layout.ResolveOrDefault(s.PageSizeID, s.LayoutID)
	result := pricing.Evaluate(s.Items, s.Decisions)

	items := make([]ItemView, 0, len(s.Items))
	for _, it := range s.Items {
		price, _ := pricing.EffectivePrice(it, s.Decisions)

		iv := ItemView{
			Item:           it,
			EffectivePrice: price.Round(2),
			FoodCostPct:    pricing.ItemFoodCostPct(it, price).Round(1),
			Profit:         price.Sub(it.FoodCost).Round(2),
			Insight:        competition.Insight(it, price),
		}
		if d, ok := s.Decisions[it.ID]; ok {
			iv.Decision = &d
		}
		items = append(items, iv)
	}

	return &View{
		Session:  s,
		PageSize: size,
		Layout:   l,
		Capacity: layout.Capacity(size, l),
		Pages:    layout.Paginate(s.Items, size, l),
		Items:    items,
		Totals:   result.Totals.Rounded(),
		Warnings: result.Warnings,
	}
}

// encodeColumns serializes the JSON columns shared by the SQL repositories.
func encodeColumns(s *Session) (items, decisions []byte, err error) {
	its := s.Items
	if its == nil {
		its = []menu.Item{}
	}
	items, err = json.Marshal(its)
	if err != nil {
		return nil, nil, err
	}

	decs := s.Decisions
	if decs == nil {
		decs = pricing.Decisions{}
	}
	decisions, err = json.Marshal(decs)
	if err != nil {
		return nil, nil, err
	}

	return items, decisions, nil
}

func decodeColumns(s *Session, items, decisions []byte) error {
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return err
	}
	if err := json.Unmarshal(decisions, &s.Decisions); err != nil {
		return err
	}
	if s.Items == nil {
		s.Items = []menu.Item{}
	}
	if s.Decisions == nil {
		s.Decisions = pricing.Decisions{}
	}
	return nil
}
