package review

import (
	"bytes"
	"context"
	"errors"
	"io"

	"menumaker/internal/backend"
	"menumaker/internal/menu"
	"menumaker/internal/pricing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

// mockBackend serves a single analyzed job from memory.
type mockBackend struct {
	job       *backend.AnalyzedMenu
	imported  *backend.ImportResult
	uploads   []string
	approvals []pricing.Approval
	analyzed  int
	competed  int
	pages     []backend.MenuPage
	err       error
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		job: &backend.AnalyzedMenu{
			ID:   "job-1",
			Name: "Dinner",
			Items: []menu.Item{
				{ID: "a", Name: "Soup", CurrentPrice: dec("10"), FoodCost: dec("3"), SuggestedPrice: nullDec("12")},
				{ID: "b", Name: "Salad", CurrentPrice: dec("25"), FoodCost: dec("8"),
					Ingredients: []menu.Ingredient{{Name: "lettuce"}, {Name: "feta"}},
					CompetitorPrices: []menu.CompetitorPrice{
						{Restaurant: "X", Price: dec("20")},
						{Restaurant: "Y", Price: dec("22")},
					}},
			},
		},
	}
}

func (m *mockBackend) ImportUpload(ctx context.Context, filename string, file io.Reader) (*backend.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	var buf bytes.Buffer
	io.Copy(&buf, file)
	m.uploads = append(m.uploads, buf.String())
	return m.imported, nil
}

func (m *mockBackend) GetMenu(ctx context.Context, jobID string) (*backend.AnalyzedMenu, error) {
	if m.err != nil {
		return nil, m.err
	}
	if jobID != m.job.ID {
		return nil, &backend.APIError{StatusCode: 404, Detail: "Menu not found"}
	}
	cp := *m.job
	cp.Items = append([]menu.Item(nil), m.job.Items...)
	return &cp, nil
}

func (m *mockBackend) Analyze(ctx context.Context, jobID string) error {
	m.analyzed++
	return m.err
}

func (m *mockBackend) CompetitorAnalysis(ctx context.Context, jobID string) error {
	m.competed++
	return m.err
}

func (m *mockBackend) Approve(ctx context.Context, jobID string, approvals []pricing.Approval) error {
	if m.err != nil {
		return m.err
	}
	m.approvals = approvals

	// the backend persists the resulting prices
	for _, a := range approvals {
		for i := range m.job.Items {
			if m.job.Items[i].ID != a.ItemID {
				continue
			}
			price, _ := pricing.Price(m.job.Items[i], pricing.Decision{Kind: a.Decision, CustomAmount: a.CustomPrice})
			m.job.Items[i].ApprovedPrice = decimal.NewNullDecimal(price)
			m.job.Items[i].PriceDecision = string(a.Decision)
		}
	}
	return nil
}

func (m *mockBackend) Export(ctx context.Context, jobID, name, format string) (*backend.Export, error) {
	if format != "csv" && format != "json" {
		return nil, backend.ErrUnsupportedFormat
	}
	return &backend.Export{Filename: name + "_export." + format, ContentType: "text/csv", Data: []byte("name,price\n")}, nil
}

func (m *mockBackend) CreateMenu(ctx context.Context, title string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "menu-42", nil
}

func (m *mockBackend) UpdateMenuPages(ctx context.Context, menuID string, pages []backend.MenuPage) error {
	m.pages = pages
	return m.err
}

func (m *mockBackend) GenerateDescription(ctx context.Context, req backend.DescriptionRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if req.DishName == "" {
		return "", errors.New("dish name required")
	}
	return "Fresh " + req.DishName + " with " + req.Ingredients, nil
}

type mockArchive struct {
	keys []string
	err  error
}

func (a *mockArchive) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "https://cdn.example/" + key, nil
}
