package backend

import (
	"menumaker/internal/layout"
	"menumaker/internal/menu"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PageDesign is presentation metadata the backend stores per page.
type PageDesign struct {
	BackgroundColor       string `json:"backgroundColor"`
	BackgroundImage       string `json:"backgroundImage"`
	BackgroundOpacity     int    `json:"backgroundOpacity"`
	TitleFont             string `json:"titleFont"`
	TitleSize             int    `json:"titleSize"`
	TitleColor            string `json:"titleColor"`
	ItemFont              string `json:"itemFont"`
	MenuBorderStyle       string `json:"menuBorderStyle"`
	MenuBorderWidth       int    `json:"menuBorderWidth"`
	MenuBorderColor       string `json:"menuBorderColor"`
	DecorativeBorder      string `json:"decorativeBorder"`
	DecorativeBorderColor string `json:"decorativeBorderColor"`
}

func DefaultDesign() PageDesign {
	return PageDesign{
		BackgroundColor:       "#ffffff",
		BackgroundOpacity:     100,
		TitleFont:             "Playfair Display",
		TitleSize:             52,
		TitleColor:            "#1a1a1a",
		ItemFont:              "DM Sans",
		MenuBorderStyle:       "none",
		MenuBorderWidth:       2,
		MenuBorderColor:       "#1a1a1a",
		DecorativeBorder:      "none",
		DecorativeBorderColor: "#1a1a1a",
	}
}

// PageItem is the backend's menu document item; price is a display string.
type PageItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

type MenuPage struct {
	ID         string     `json:"id"`
	PageNumber int        `json:"page_number"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle"`
	Items      []PageItem `json:"items"`
	Design     PageDesign `json:"design"`
}

// BuildPages turns paginated items into the create-menu payload. priceOf
// decides which price is printed for each item.
func BuildPages(title string, pages []layout.Page, priceOf func(menu.Item) decimal.Decimal) []MenuPage {
	out := make([]MenuPage, 0, len(pages))

	for _, p := range pages {
		items := make([]PageItem, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, PageItem{
				ID:          it.ID,
				Name:        it.Name,
				Description: it.Description,
				Price:       priceOf(it).StringFixed(2),
				Category:    it.Category,
			})
		}

		pageTitle := ""
		if p.PageNumber == 1 {
			pageTitle = title
		}

		out = append(out, MenuPage{
			ID:         uuid.New().String(),
			PageNumber: p.PageNumber,
			Title:      pageTitle,
			Items:      items,
			Design:     DefaultDesign(),
		})
	}

	return out
}
