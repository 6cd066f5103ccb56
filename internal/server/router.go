package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shorturl-go/internal/flash"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/middleware"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Shortener  handler.Shortener
	FlashStore flash.Store
	Catalog    *i18n.Catalog
	Templates  *template.Template
	Health     map[string]handler.Pinger
	Registry   *prometheus.Registry
	BaseURL    string
	Logger     *zap.Logger
}

// NewRouter wires pages, the JSON API and the operational endpoints.
func NewRouter(d Deps) *gin.Engine {
	pages := handler.NewShortenedURLHandler(d.Shortener, d.BaseURL, d.Logger)
	api := handler.NewAPIHandler(d.Shortener, d.BaseURL, d.Logger)
	health := handler.NewHealthHandler(d.Health, d.Logger)
	httpMetrics := middleware.NewHTTPMetrics(d.Registry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapGinLogger(d.Logger))
	r.Use(httpMetrics.Middleware())
	r.Use(middleware.I18nMiddleware(d.Catalog))
	r.SetHTMLTemplate(d.Templates)

	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	apiGroup := r.Group("/api", middleware.CorsMiddleware(), middleware.GlobalErrorMiddleware(d.Logger))
	{
		apiGroup.POST("/urls", api.Create)
		apiGroup.GET("/urls", api.List)
		apiGroup.GET("/urls/:id", api.Get)
		apiGroup.DELETE("/urls/:id", api.Delete)
		apiGroup.OPTIONS("/urls", func(*gin.Context) {})
		apiGroup.OPTIONS("/urls/:id", func(*gin.Context) {})
	}

	html := r.Group("/", flash.Middleware(d.FlashStore, d.Logger))
	{
		html.GET("/", pages.Index)
		html.GET("/urls", pages.Index)
		html.GET("/urls/new", pages.New)
		html.POST("/urls", pages.Create)
		html.GET("/urls/:id", pages.Show)
		html.DELETE("/urls/:id", pages.Destroy)
		html.GET("/:shortened", pages.Redirect)
	}

	return r
}

// NewHandler is the router behind the form method override.
func NewHandler(d Deps) http.Handler {
	return middleware.MethodOverride(NewRouter(d))
}

func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
