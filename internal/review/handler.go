package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"menumaker/internal/backend"
	"menumaker/internal/layout"
	"menumaker/internal/menu"
	"menumaker/internal/middleware"
	"menumaker/internal/pricing"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// respond maps service errors onto HTTP statuses.
func respond(c *gin.Context, err error) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoAnalysisJob):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, menu.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrInvalidConfiguration),
		errors.Is(err, pricing.ErrUnknownDecision),
		errors.Is(err, pricing.ErrInvalidNumericInput),
		errors.Is(err, pricing.ErrNoDecisions),
		errors.Is(err, menu.ErrMissingExtension),
		errors.Is(err, menu.ErrFileType),
		errors.Is(err, menu.ErrEmptyFile),
		errors.Is(err, backend.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Detail})
	default:
		log.Printf("[REVIEW] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// --------------------------------------------------
// POST /sessions/import (multipart "file")
// --------------------------------------------------
func (h *Handler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if err := menu.ValidateUpload(header.Filename, header.Size); err != nil {
		respond(c, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, menu.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	view, err := h.service.Import(c.Request.Context(), middleware.UserID(c), header.Filename, data)
	if err != nil {
		respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// --------------------------------------------------
// POST /sessions {job_id}
// --------------------------------------------------
func (h *Handler) Open(c *gin.Context) {
	var req struct {
		JobID string `json:"job_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.JobID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	view, err := h.service.Open(c.Request.Context(), middleware.UserID(c), req.JobID)
	if err != nil {
		respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *Handler) List(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// PUT /sessions/:id/layout
// --------------------------------------------------
func (h *Handler) SetLayout(c *gin.Context) {
	var req struct {
		PageSize string `json:"page_size"`
		Layout   string `json:"layout"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.service.SetLayout(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.PageSize, req.Layout)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --------------------------------------------------
// PUT / DELETE /sessions/:id/items/:item_id/decision
// --------------------------------------------------

type decisionRequest struct {
	Decision string `json:"decision"`

	// number or string, as typed by the user
	CustomPrice json.RawMessage `json:"custom_price"`
}

// rawAmount returns the typed amount as text. Anything that is neither a
// JSON string nor a number is passed through so it surfaces as a warning.
func rawAmount(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	if text := strings.TrimSpace(string(raw)); text != "null" {
		return text
	}
	return ""
}

// bindOptionalJSON binds a body that may be absent. A malformed body is
// still an error.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) SetDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.service.SetDecision(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("id"),
		c.Param("item_id"),
		req.Decision,
		rawAmount(req.CustomPrice),
	)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ClearDecision(c *gin.Context) {
	view, err := h.service.ClearDecision(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("item_id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --------------------------------------------------
// Item descriptions
// --------------------------------------------------
func (h *Handler) EditDescription(c *gin.Context) {
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.service.EditDescription(
		c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("item_id"), req.Description,
	)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GenerateDescription(c *gin.Context) {
	var req struct {
		Style string `json:"style"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.service.GenerateDescription(
		c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("item_id"), req.Style,
	)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --------------------------------------------------
// Backend analysis actions
// --------------------------------------------------
func (h *Handler) Reanalyze(c *gin.Context) {
	view, err := h.service.Reanalyze(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Competitors(c *gin.Context) {
	view, err := h.service.Competitors(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Approve(c *gin.Context) {
	view, err := h.service.Approve(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --------------------------------------------------
// POST /sessions/:id/menu
// --------------------------------------------------
func (h *Handler) CreateMenu(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	menuID, err := h.service.CreateMenu(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"menu_id": menuID})
}

// --------------------------------------------------
// GET /sessions/:id/export?format=json|csv
// --------------------------------------------------
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	exp, err := h.service.Export(c.Request.Context(), middleware.UserID(c), c.Param("id"), format)
	if err != nil {
		respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}

// --------------------------------------------------
// GET /layouts
// --------------------------------------------------
func (h *Handler) Layouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page_sizes":        layout.PageSizes(),
		"layouts":           layout.Layouts(),
		"default_page_size": h.service.opts.DefaultPageSize,
		"default_layout":    h.service.opts.DefaultLayout,
	})
}

// --------------------------------------------------
// Admin: every session
// --------------------------------------------------
func (h *Handler) ListAll(c *gin.Context) {
	sessions, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Register mounts the session routes on rg. rg must already carry
// AuthMiddleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/layouts", h.Layouts)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("/import", h.Import)
		sessions.POST("", h.Open)
		sessions.GET("", h.List)
		sessions.GET("/:id", h.Get)
		sessions.DELETE("/:id", h.Delete)
		sessions.PUT("/:id/layout", h.SetLayout)

		sessions.PUT("/:id/items/:item_id/decision", h.SetDecision)
		sessions.DELETE("/:id/items/:item_id/decision", h.ClearDecision)
		sessions.PUT("/:id/items/:item_id/description", h.EditDescription)
		sessions.POST("/:id/items/:item_id/description/generate", h.GenerateDescription)

		sessions.POST("/:id/reanalyze", h.Reanalyze)
		sessions.POST("/:id/competitors", h.Competitors)
		sessions.POST("/:id/approve", h.Approve)
		sessions.POST("/:id/menu", h.CreateMenu)
		sessions.GET("/:id/export", h.Export)
	}
}
