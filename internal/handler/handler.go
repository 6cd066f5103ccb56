package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"shorturl-go/internal/i18n"
	"shorturl-go/internal/model"
	"shorturl-go/pkg/utils"
	"shorturl-go/web"
)

// Shortener is the service behind both the HTML pages and the JSON API.
type Shortener interface {
	Create(ctx context.Context, original string) (*model.ShortenedURL, error)
	Lookup(ctx context.Context, code string) (*model.ShortenedURL, error)
	Get(ctx context.Context, id uint) (*model.ShortenedURL, error)
	List(ctx context.Context) ([]model.ShortenedURL, error)
	Delete(ctx context.Context, id uint) error
}

// baseURL returns the configured public base, or scheme://host of the request.
func baseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func shortURL(c *gin.Context, configured, code string) string {
	return web.ShortLink(baseURL(c, configured), code)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// validationMessage renders e.g. "Original can't be blank" in the request language.
func validationMessage(ctx context.Context, vErr *utils.ValidationError) string {
	return i18n.T(ctx, "error.full_message", map[string]interface{}{
		"Attribute": i18n.T(ctx, "attribute."+vErr.Field, nil),
		"Message":   i18n.T(ctx, vErr.MessageID, nil),
	})
}
