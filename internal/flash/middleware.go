package flash

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CookieName = "_shorturl_flash"
	sessionKey = "flash.session"
)

type session struct {
	id      string
	current Flash
	store   Store
	logger  *zap.Logger
}

// Middleware assigns a session cookie and moves the pending flash, if any,
// into the request so templates can render it.
func Middleware(store Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, 0, "/", "", c.Request.TLS != nil, true)
		}

		current, err := store.Pop(c.Request.Context(), id)
		if err != nil {
			logger.Warn("Failed to load flash", zap.String("session", id), zap.Error(err))
		}

		c.Set(sessionKey, &session{id: id, current: current, store: store, logger: logger})
		c.Next()
	}
}

// Current is the flash to render on this response.
func Current(c *gin.Context) Flash {
	if s := sessionFrom(c); s != nil {
		return s.current
	}
	return Flash{}
}

// Now replaces the flash shown on this response without persisting it.
func Now(c *gin.Context, f Flash) {
	if s := sessionFrom(c); s != nil {
		s.current = f
	}
}

// Notice stores a notice for the next request of this browser.
func Notice(c *gin.Context, msg string) {
	keep(c, Flash{Notice: msg})
}

// Alert stores an error message for the next request of this browser.
func Alert(c *gin.Context, msg string) {
	keep(c, Flash{Error: msg})
}

func keep(c *gin.Context, f Flash) {
	s := sessionFrom(c)
	if s == nil {
		return
	}
	if err := s.store.Set(c.Request.Context(), s.id, f); err != nil {
		s.logger.Warn("Failed to store flash", zap.String("session", s.id), zap.Error(err))
	}
}

func sessionFrom(c *gin.Context) *session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session)
	return s
}
