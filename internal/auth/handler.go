package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"menumaker/internal/backend"

	"github.com/gin-gonic/gin"
)

// Backend is the part of the backend client the auth routes need.
type Backend interface {
	Register(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	Login(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
}

type Handler struct {
	backend Backend
}

func NewHandler(b Backend) *Handler {
	return &Handler{backend: b}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AdminSecret string `json:"admin_secret,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --------------------------------------------------
// POST /auth/register
// --------------------------------------------------
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	body, _ := json.Marshal(req)
	out, err := h.backend.Register(c.Request.Context(), body)
	if err != nil {
		respondBackendError(c, "register", err)
		return
	}

	c.Data(http.StatusCreated, "application/json", out)
}

// --------------------------------------------------
// POST /auth/login
// --------------------------------------------------
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	body, _ := json.Marshal(req)
	out, err := h.backend.Login(c.Request.Context(), body)
	if err != nil {
		respondBackendError(c, "login", err)
		return
	}

	c.Data(http.StatusOK, "application/json", out)
}

func respondBackendError(c *gin.Context, op string, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Detail})
		return
	}

	log.Printf("[AUTH] %s failed: %v", op, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "authentication service unavailable"})
}
