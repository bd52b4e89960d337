package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"menumaker/internal/menu"

	"github.com/shopspring/decimal"
)

// ImportResult is what the backend extracted from an uploaded menu file.
type ImportResult struct {
	Items         []menu.Item
	ExtractedText string
	ItemsFound    int
	JobID         string
}

// importedItem accepts price as either a JSON number or a string like "$12.50".
type importedItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       json.RawMessage `json:"price"`
}

func (it importedItem) toItem() menu.Item {
	price := decimal.Zero
	if raw := strings.Trim(string(it.Price), `"`); raw != "" && raw != "null" {
		if p, err := menu.ParsePrice(raw); err == nil {
			price = p
		}
	}

	return menu.Item{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		Category:     it.Category,
		CurrentPrice: price,
	}
}

// ImportUpload sends a menu file for text extraction and item parsing.
func (c *Client) ImportUpload(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/import/upload", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	raw, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var body struct {
		Items         []importedItem `json:"items"`
		ExtractedText string         `json:"extracted_text"`
		ItemsFound    int            `json:"items_found"`
		JobID         string         `json:"job_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("invalid import response: %w", err)
	}

	result := &ImportResult{
		Items:         make([]menu.Item, 0, len(body.Items)),
		ExtractedText: body.ExtractedText,
		ItemsFound:    body.ItemsFound,
		JobID:         body.JobID,
	}
	for _, it := range body.Items {
		result.Items = append(result.Items, it.toItem())
	}

	return result, nil
}
