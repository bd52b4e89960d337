package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"menumaker/internal/menu"
	"menumaker/internal/pricing"
)

var ErrUnsupportedFormat = errors.New("export format must be json or csv")

// AnalyzedMenu is a menu job after backend analysis.
type AnalyzedMenu struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Status string      `json:"status"`
	Items  []menu.Item `json:"items"`
}

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DescriptionRequest struct {
	DishName    string `json:"dish_name"`
	Ingredients string `json:"ingredients"`
	Style       string `json:"style"`
}

func jobPath(jobID, suffix string) string {
	return "/menus/" + url.PathEscape(jobID) + suffix
}

// --------------------------------------------------
// Analysis job
// --------------------------------------------------

func (c *Client) GetMenu(ctx context.Context, jobID string) (*AnalyzedMenu, error) {
	var m AnalyzedMenu
	if err := c.doJSON(ctx, http.MethodGet, jobPath(jobID, ""), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Analyze(ctx context.Context, jobID string) error {
	return c.doJSON(ctx, http.MethodPost, jobPath(jobID, "/analyze"), struct{}{}, nil)
}

func (c *Client) CompetitorAnalysis(ctx context.Context, jobID string) error {
	return c.doJSON(ctx, http.MethodPost, jobPath(jobID, "/competitor-analysis"), struct{}{}, nil)
}

// Approve sends finalized pricing decisions.
func (c *Client) Approve(ctx context.Context, jobID string, approvals []pricing.Approval) error {
	return c.doJSON(ctx, http.MethodPost, jobPath(jobID, "/approve"), approvals, nil)
}

var unsafeName = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Export downloads the approved menu as json or csv.
func (c *Client) Export(ctx context.Context, jobID, name, format string) (*Export, error) {
	base := name
	if base == "" {
		base = "menu"
	}
	base = unsafeName.ReplaceAllString(base, "_")

	path := jobPath(jobID, "/export?format="+url.QueryEscape(format))

	switch format {
	case "json":
		var raw json.RawMessage
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
			return nil, err
		}
		return &Export{
			Filename:    base + "_export.json",
			ContentType: "application/json",
			Data:        raw,
		}, nil

	case "csv":
		var body struct {
			CSVData  string `json:"csv_data"`
			Filename string `json:"filename"`
		}
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &body); err != nil {
			return nil, err
		}
		filename := body.Filename
		if filename == "" {
			filename = base + "_export.csv"
		}
		return &Export{
			Filename:    filename,
			ContentType: "text/csv; charset=utf-8",
			Data:        []byte(body.CSVData),
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// --------------------------------------------------
// Menu documents
// --------------------------------------------------

// CreateMenu creates an empty menu document and returns its id.
func (c *Client) CreateMenu(ctx context.Context, title string) (string, error) {
	var created struct {
		ID string `json:"id"`
	}

	in := map[string]any{"title": title, "template_id": nil}
	if err := c.doJSON(ctx, http.MethodPost, "/menus", in, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New("backend returned a menu without id")
	}
	return created.ID, nil
}

// UpdateMenuPages replaces the pages of a menu document.
func (c *Client) UpdateMenuPages(ctx context.Context, menuID string, pages []MenuPage) error {
	in := map[string]any{"pages": pages}
	return c.doJSON(ctx, http.MethodPut, "/menus/"+url.PathEscape(menuID), in, nil)
}

// GenerateDescription asks the backend's AI writer for a dish description.
func (c *Client) GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error) {
	if req.Style == "" {
		req.Style = "professional"
	}

	var out struct {
		Description string `json:"description"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ai/generate-description", req, &out); err != nil {
		return "", err
	}
	if out.Description == "" {
		return "", errors.New("empty description from backend")
	}
	return out.Description, nil
}
