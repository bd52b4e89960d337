package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"menumaker/internal/layout"
	"menumaker/internal/menu"
	"menumaker/internal/pricing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	colorMuted  = lipgloss.Color("#7E8C80")
	colorText   = lipgloss.Color("#D6E0D3")
	colorAccent = lipgloss.Color("#8FA082")
	colorDanger = lipgloss.Color("#f38ba8")

	pageStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	pageTitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Underline(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorText)

	columnStyle = lipgloss.NewStyle().
			Width(34).
			MarginRight(2)

	totalsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorDanger)
)

func loadItems(path string) ([]menu.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("[")) {
		var items []menu.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse items: %w", err)
		}
		return items, nil
	}

	var wrapped struct {
		Items []menu.Item `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	return wrapped.Items, nil
}

// loadDecisions reads {"item_id": {"decision": "...", "custom_price": ...}}.
// A custom price that does not parse is kept as an incomplete decision so it
// shows up as a warning.
func loadDecisions(path string) (pricing.Decisions, error) {
	decisions := pricing.Decisions{}
	if path == "" {
		return decisions, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decisions: %w", err)
	}

	var entries map[string]struct {
		Decision    string          `json:"decision"`
		CustomPrice json.RawMessage `json:"custom_price"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse decisions: %w", err)
	}

	for id, e := range entries {
		kind, err := pricing.ParseKind(e.Decision)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", id, err)
		}

		d := pricing.Decision{Kind: kind}
		if kind == pricing.Custom {
			amount := strings.Trim(strings.TrimSpace(string(e.CustomPrice)), `"`)
			if v, err := pricing.ParseCustomAmount(amount); err == nil {
				d = pricing.CustomPrice(v)
			}
		}
		decisions = decisions.With(id, d)
	}

	return decisions, nil
}

func render(
	w io.Writer,
	tag language.Tag,
	items []menu.Item,
	decisions pricing.Decisions,
	size layout.PageSizeSpec,
	l layout.LayoutSpec,
) {
	p := message.NewPrinter(tag)
	title := cases.Title(tag)

	money := func(d decimal.Decimal) string {
		f, _ := d.Round(2).Float64()
		return p.Sprintf("$%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}

	pages := layout.Paginate(items, size, l)
	fmt.Fprintf(w, "%s / %s: %d items per page, %d page(s)\n\n",
		size.Name, l.Name, layout.Capacity(size, l), len(pages))

	for _, page := range pages {
		var columns []string
		for _, chunk := range splitColumns(page.Items, l.ColumnCount) {
			var lines []string
			category := ""
			for _, it := range chunk {
				if it.Category != "" && it.Category != category {
					category = it.Category
					lines = append(lines, categoryStyle.Render(title.String(category)))
				}
				price, _ := pricing.EffectivePrice(it, decisions)
				lines = append(lines, itemStyle.Render(fmt.Sprintf("%-24s %9s", truncate(it.Name, 24), money(price))))
			}
			columns = append(columns, columnStyle.Render(strings.Join(lines, "\n")))
		}

		body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
		header := pageTitleStyle.Render(fmt.Sprintf("Page %d", page.PageNumber))
		fmt.Fprintln(w, pageStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body)))
	}

	result := pricing.Evaluate(items, decisions)
	t := result.Totals.Rounded()
	pct, _ := t.AvgFoodCostPct.Float64()

	fmt.Fprintln(w, totalsStyle.Render(strings.Join([]string{
		"Revenue     " + money(t.TotalRevenue),
		"Food cost   " + money(t.TotalFoodCost),
		"Profit      " + money(t.TotalProfit),
		"Food cost % " + p.Sprintf("%v%%", number.Decimal(pct, number.MaxFractionDigits(1))),
	}, "\n")))

	for _, warn := range result.Warnings {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("⚠ %s: %s", warn.ItemID, warn.Message)))
	}
}

// splitColumns distributes items top-to-bottom across n columns.
func splitColumns(items []menu.Item, n int) [][]menu.Item {
	if n < 1 {
		n = 1
	}
	if len(items) == 0 {
		return [][]menu.Item{nil}
	}

	per := (len(items) + n - 1) / n
	var out [][]menu.Item
	for start := 0; start < len(items); start += per {
		out = append(out, items[start:min(start+per, len(items))])
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
