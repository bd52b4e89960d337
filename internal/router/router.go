package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"menumaker/internal/auth"
	"menumaker/internal/backend"
	"menumaker/internal/menu"
	"menumaker/internal/middleware"
	"menumaker/internal/review"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	checkoutPollInterval = 2 * time.Second
	checkoutPollAttempts = 5
)

// Account is the backend surface used by the location and credits routes.
type Account interface {
	SearchLocations(ctx context.Context, query string) ([]json.RawMessage, error)
	PollCheckoutStatus(ctx context.Context, checkoutID string, interval time.Duration, maxAttempts int) (*backend.CheckoutStatus, error)
	IsAdmin(ctx context.Context) (bool, error)
}

type Config struct {
	CORSOrigins []string
	Auth        *auth.Handler
	Review      *review.Handler
	Account     Account

	// zero means the production polling cadence
	PollInterval time.Duration
}

func NewRouter(cfg Config) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = menu.MaxUploadSize

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ───────────────────────── AUTH (public) ─────────────────────────
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", cfg.Auth.Register)
		authGroup.POST("/login", cfg.Auth.Login)
	}

	// ───────────────────────── PROTECTED ─────────────────────────
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		cfg.Review.Register(protected)

		protected.GET("/location/search", searchLocations(cfg.Account))
		protected.GET("/credits/status/:checkout_id", checkoutStatus(cfg.Account, cfg.PollInterval))
	}

	// ───────────────────────── ADMIN ─────────────────────────
	admin := api.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireAdmin(cfg.Account.IsAdmin),
	)
	{
		admin.GET("/sessions", cfg.Review.ListAll)
	}

	return r
}

// --------------------------------------------------
// GET /location/search?query=
// --------------------------------------------------
func searchLocations(acc Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := acc.SearchLocations(c.Request.Context(), c.Query("query"))
		if err != nil {
			backendError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// --------------------------------------------------
// GET /credits/status/:checkout_id
// --------------------------------------------------
func checkoutStatus(acc Account, interval time.Duration) gin.HandlerFunc {
	if interval <= 0 {
		interval = checkoutPollInterval
	}

	return func(c *gin.Context) {
		st, err := acc.PollCheckoutStatus(c.Request.Context(), c.Param("checkout_id"), interval, checkoutPollAttempts)
		if errors.Is(err, backend.ErrPollExhausted) {
			c.JSON(http.StatusAccepted, gin.H{"status": st.Status, "message": err.Error()})
			return
		}
		if err != nil {
			backendError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func backendError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Detail})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
}
