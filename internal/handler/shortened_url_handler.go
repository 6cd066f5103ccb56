package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shorturl-go/internal/dto"
	"shorturl-go/internal/flash"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/service"
	"shorturl-go/pkg/utils"
)

// ShortenedURLHandler serves the HTML pages and the short-code redirect.
type ShortenedURLHandler struct {
	svc     Shortener
	baseURL string
	logger  *zap.Logger
}

func NewShortenedURLHandler(svc Shortener, baseURL string, logger *zap.Logger) *ShortenedURLHandler {
	return &ShortenedURLHandler{svc: svc, baseURL: baseURL, logger: logger}
}

// Index lists every shortened URL.
func (h *ShortenedURLHandler) Index(c *gin.Context) {
	urls, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	data := h.view(c)
	data["URLs"] = urls
	c.HTML(http.StatusOK, "index.tmpl", data)
}

func (h *ShortenedURLHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "new.tmpl", h.view(c))
}

// Create shortens the submitted URL and redirects to its detail page, or
// re-renders the form with the reason it was rejected.
func (h *ShortenedURLHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.CreateShortenedURLForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("Form binding failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	u, err := h.svc.Create(ctx, form.Original)
	if err == nil {
		flash.Notice(c, i18n.T(ctx, "flash.created", nil))
		c.Redirect(http.StatusFound, "/urls/"+strconv.FormatUint(uint64(u.ID), 10))
		return
	}

	var (
		vErr  *utils.ValidationError
		taken *service.TakenError
	)
	status := http.StatusUnprocessableEntity
	var msg string
	switch {
	case errors.As(err, &vErr):
		msg = validationMessage(ctx, vErr)
	case errors.As(err, &taken):
		msg = i18n.T(ctx, "flash.already_shortened", map[string]interface{}{"Original": taken.Original})
	case errors.Is(err, service.ErrRetryExhausted):
		status = http.StatusServiceUnavailable
		msg = i18n.T(ctx, "flash.retry_exhausted", nil)
	default:
		h.fail(c, err)
		return
	}

	h.logger.Info("URL not shortened",
		zap.String("original", form.Original),
		zap.Error(err),
	)
	flash.Now(c, flash.Flash{Error: msg})
	data := h.view(c)
	data["Original"] = form.Original
	c.HTML(status, "new.tmpl", data)
}

func (h *ShortenedURLHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		h.entryNotFound(c)
		return
	}
	u, err := h.svc.Get(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		h.entryNotFound(c)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.view(c)
	data["URL"] = u
	c.HTML(http.StatusOK, "show.tmpl", data)
}

// Destroy deletes the entry, if it exists, and returns to the list.
func (h *ShortenedURLHandler) Destroy(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		h.entryNotFound(c)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	flash.Notice(c, i18n.T(ctx, "flash.deleted", nil))
	c.Redirect(http.StatusSeeOther, "/urls")
}

// Redirect sends the visitor of /:shortened to the original URL.
func (h *ShortenedURLHandler) Redirect(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("shortened")

	u, err := h.svc.Lookup(ctx, code)
	if errors.Is(err, service.ErrNotFound) {
		flash.Alert(c, i18n.T(ctx, "flash.code_not_found", nil))
		c.Redirect(http.StatusFound, "/urls/new")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusMovedPermanently, u.Original)
}

func (h *ShortenedURLHandler) entryNotFound(c *gin.Context) {
	flash.Alert(c, i18n.T(c.Request.Context(), "flash.entry_not_found", nil))
	c.Redirect(http.StatusFound, "/urls")
}

func (h *ShortenedURLHandler) fail(c *gin.Context, err error) {
	h.logger.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	data := h.view(c)
	data["Message"] = i18n.T(c.Request.Context(), "error.internal", nil)
	c.HTML(http.StatusInternalServerError, "error.tmpl", data)
}

// view holds what every page template needs.
func (h *ShortenedURLHandler) view(c *gin.Context) gin.H {
	ctx := c.Request.Context()
	return gin.H{
		"Lang":     c.Writer.Header().Get("Content-Language"),
		"Flash":    flash.Current(c),
		"BaseURL":  baseURL(c, h.baseURL),
		"Original": "",
		"T": func(id string, pairs ...interface{}) string {
			var data map[string]interface{}
			if len(pairs) > 1 {
				data = make(map[string]interface{}, len(pairs)/2)
				for i := 0; i+1 < len(pairs); i += 2 {
					if k, ok := pairs[i].(string); ok {
						data[k] = pairs[i+1]
					}
				}
			}
			return i18n.T(ctx, id, data)
		},
	}
}
