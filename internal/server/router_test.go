package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shorturl-go/internal/flash"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/service"
	"shorturl-go/internal/shortcode"
	"shorturl-go/internal/testutil"
	"shorturl-go/web"
)

type app struct {
	handler http.Handler
	svc     *service.ShortenerService
	cookies []*http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	repo := repository.NewShortenedURLRepository(db)
	gen, err := shortcode.NewGenerator()
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	svc := service.NewShortenerService(repo, gen, service.Options{MaxAttempts: 5}, service.NewMetrics(reg), zap.NewNop())

	catalog, err := i18n.Load("en")
	require.NoError(t, err)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	store := flash.NewMemoryStore()
	h := NewHandler(Deps{
		Shortener:  svc,
		FlashStore: store,
		Catalog:    catalog,
		Templates:  tmpl,
		Health:     map[string]handler.Pinger{"database": repo, "flash": store},
		Registry:   reg,
		Logger:     zap.NewNop(),
	})
	return &app{handler: h, svc: svc}
}

// do sends a request like a browser would, keeping the flash cookie.
func (a *app) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		a.cookies = cs
	}
	return w
}

func TestPages_CreateShowAndRedirect(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodGet, "/urls/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shorten A New URL")
	assert.Contains(t, w.Body.String(), `name="url[original]"`)
	assert.Contains(t, w.Body.String(), `value="Submit"`)

	w = a.do(t, http.MethodPost, "/urls", url.Values{"url[original]": {"https://Amazon.com"}})
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Regexp(t, `^/urls/\d+$`, location)

	w = a.do(t, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "URL has been shortened!")
	assert.Contains(t, body, "Entry Detail")
	assert.Contains(t, body, "Original: https://amazon.com/")

	code := regexp.MustCompile(`Shortened: ([1-9A-HJ-NP-Za-km-z]{8})`).FindStringSubmatch(body)
	require.Len(t, code, 2)
	assert.Contains(t, body, `href="http://example.com/`+code[1]+`"`)

	// the notice is shown once
	w = a.do(t, http.MethodGet, location, nil)
	assert.NotContains(t, w.Body.String(), "URL has been shortened!")

	w = a.do(t, http.MethodGet, "/"+code[1], nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://amazon.com/", w.Header().Get("Location"))
}

func TestPages_Index(t *testing.T) {
	a := newApp(t)
	u, err := a.svc.Create(context.Background(), "https://google.com")
	require.NoError(t, err)

	for _, path := range []string{"/", "/urls"} {
		w := a.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Shortened URLs")
		assert.Contains(t, body, "https://google.com/")
		assert.Contains(t, body, `href="http://example.com/`+u.Shortened+`"`)
		assert.Contains(t, body, `href="/urls/new"`)
		assert.Contains(t, body, `href="/urls"`)
		assert.Regexp(t, `href="/urls/\d+">Show`, body)
	}
}

func TestPages_CreateRejected(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/urls", url.Values{"url[original]": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Original can&#39;t be blank")

	w = a.do(t, http.MethodPost, "/urls", url.Values{"url[original]": {"https://f"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Original is not a valid HTTP or HTTPS URL")
	assert.Contains(t, w.Body.String(), `value="https://f"`)

	_, err := a.svc.Create(context.Background(), "https://google.com")
	require.NoError(t, err)

	w = a.do(t, http.MethodPost, "/urls", url.Values{"url[original]": {"https://google.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Url https://google.com/ has already been shortened.")
}

func TestPages_UnknownCodeRedirectsToNew(t *testing.T) {
	a := newApp(t)

	for _, code := range []string{"zzzzzzzz", "nope"} {
		w := a.do(t, http.MethodGet, "/"+code, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/urls/new", w.Header().Get("Location"))

		w = a.do(t, http.MethodGet, "/urls/new", nil)
		assert.Contains(t, w.Body.String(), "Sorry, that code was not found. Please shorten a new URL.")
	}
}

func TestPages_UnknownEntryRedirectsToList(t *testing.T) {
	a := newApp(t)

	for _, path := range []string{"/urls/999", "/urls/abc"} {
		w := a.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/urls", w.Header().Get("Location"))

		w = a.do(t, http.MethodGet, "/urls", nil)
		assert.Contains(t, w.Body.String(), "Sorry, that entry was not found.")
	}
}

func TestPages_DeleteThroughMethodOverride(t *testing.T) {
	a := newApp(t)
	u, err := a.svc.Create(context.Background(), "https://google.com")
	require.NoError(t, err)

	path := "/urls/" + strconvID(u.ID)
	w := a.do(t, http.MethodPost, path, url.Values{"_method": {"delete"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/urls", w.Header().Get("Location"))

	w = a.do(t, http.MethodGet, "/urls", nil)
	assert.Contains(t, w.Body.String(), "URL has been deleted.")
	assert.NotContains(t, w.Body.String(), u.Shortened)

	// deleting again is harmless
	w = a.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.do(t, http.MethodGet, "/"+u.Shortened, nil)
	assert.Equal(t, "/urls/new", w.Header().Get("Location"))
}

func TestAPI_Lifecycle(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"original":"https://Google.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			ID        uint   `json:"id"`
			Original  string `json:"original"`
			Shortened string `json:"shortened"`
			ShortURL  string `json:"shortUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "https://google.com/", created.Data.Original)
	assert.Equal(t, "http://example.com/"+created.Data.Shortened, created.Data.ShortURL)

	// same original again
	req = httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"original":"https://google.com/"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodGet, "/api/urls", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	id := strconvID(created.Data.ID)
	w = a.do(t, http.MethodGet, "/api/urls/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodDelete, "/api/urls/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(t, http.MethodDelete, "/api/urls/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/urls/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ValidationError(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"original":"htt"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Original is not a valid HTTP or HTTPS URL")

	req = httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	_, err := a.svc.Create(context.Background(), "https://google.com")
	require.NoError(t, err)

	w = a.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shorturl_urls_created_total 1")
	assert.Contains(t, w.Body.String(), "shorturl_http_request_duration_seconds")

	w = a.do(t, http.MethodGet, "/favicon.ico", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func strconvID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
