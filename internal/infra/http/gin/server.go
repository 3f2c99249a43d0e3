package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"vibestays/internal/infra/config"
	"vibestays/internal/infra/obs"
)

type Handlers struct {
	Listing        ListingHTTP
	Inquiry        InquiryHTTP
	Auth           AuthHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
	// FormLimiter throttles the contact form, review submission and login.
	FormLimiter *RateLimiter
	Metrics     http.Handler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	limited := h.FormLimiter.Middleware()
	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/featured", h.Listing.Featured)
		api.GET("/listings/:id", h.Listing.Detail)
		api.GET("/listings/:id/reviews", h.Listing.Reviews)
		api.POST("/listings/:id/reviews", limited, h.Listing.SubmitReview)
	}
	if h.Inquiry != nil {
		api.POST("/inquiries", limited, h.Inquiry.Submit)
	}
	if h.Auth != nil {
		api.POST("/auth/login", limited, h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Admin != nil {
		admin := api.Group("/admin", RequireAdmin())
		admin.GET("/listings", h.Admin.ListListings)
		admin.POST("/listings", h.Admin.CreateListing)
		admin.PUT("/listings/:id", h.Admin.UpdateListing)
		admin.DELETE("/listings/:id", h.Admin.DeleteListing)
		admin.POST("/images", h.Admin.UploadImage)
		admin.GET("/reviews", h.Admin.ListReviews)
		admin.POST("/reviews/:id/moderation", h.Admin.ModerateReview)
		admin.DELETE("/reviews/:id", h.Admin.DeleteReview)
		admin.GET("/inquiries", h.Admin.ListInquiries)
		admin.POST("/inquiries/:id/handled", h.Admin.MarkInquiryHandled)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
