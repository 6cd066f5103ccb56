package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/service"
	"shorturl-go/pkg/utils"
	"shorturl-go/response"
)

// APIHandler exposes the shortener as JSON under /api/urls. Errors are
// recorded with c.Error and rendered by GlobalErrorMiddleware.
type APIHandler struct {
	svc     Shortener
	baseURL string
	logger  *zap.Logger
}

func NewAPIHandler(svc Shortener, baseURL string, logger *zap.Logger) *APIHandler {
	return &APIHandler{svc: svc, baseURL: baseURL, logger: logger}
}

func (h *APIHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateShortenedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault().Wrap(err))
		return
	}

	u, err := h.svc.Create(ctx, req.Original)
	if err != nil {
		var (
			vErr  *utils.ValidationError
			taken *service.TakenError
		)
		switch {
		case errors.As(err, &vErr):
			_ = c.Error(apperrors.InvalidRequestError("error.full_message").
				WithData(map[string]interface{}{
					"Attribute": i18n.T(ctx, "attribute."+vErr.Field, nil),
					"Message":   i18n.T(ctx, vErr.MessageID, nil),
				}))
		case errors.As(err, &taken):
			_ = c.Error(apperrors.ConflictError("flash.already_shortened").
				WithData(map[string]interface{}{"Original": taken.Original}))
		case errors.Is(err, service.ErrRetryExhausted):
			_ = c.Error(apperrors.UnavailableError("error.unavailable").Wrap(err))
		default:
			_ = c.Error(apperrors.SystemErrorDefault().Wrap(err))
		}
		return
	}

	resp := dto.NewShortenedURLResponse(u, shortURL(c, h.baseURL, u.Shortened))
	c.JSON(http.StatusCreated, response.OK(resp, i18n.T(ctx, "flash.created", nil)))
}

func (h *APIHandler) List(c *gin.Context) {
	urls, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.SystemErrorDefault().Wrap(err))
		return
	}

	items := make([]dto.ShortenedURLResponse, 0, len(urls))
	for i := range urls {
		items = append(items, dto.NewShortenedURLResponse(&urls[i], shortURL(c, h.baseURL, urls[i].Shortened)))
	}
	c.JSON(http.StatusOK, response.OK(response.List(items), "success"))
}

func (h *APIHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		_ = c.Error(apperrors.InvalidRequestError("error.invalid_id"))
		return
	}

	u, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		_ = c.Error(apperrors.NotFoundError("flash.entry_not_found"))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.SystemErrorDefault().Wrap(err))
		return
	}
	c.JSON(http.StatusOK, response.OK(dto.NewShortenedURLResponse(u, shortURL(c, h.baseURL, u.Shortened)), "success"))
}

// Delete answers 204 whether or not the entry existed.
func (h *APIHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		_ = c.Error(apperrors.InvalidRequestError("error.invalid_id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(apperrors.SystemErrorDefault().Wrap(err))
		return
	}
	c.Status(http.StatusNoContent)
}
