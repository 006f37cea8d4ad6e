package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Serg1oA/news-now-quick/config"
	"github.com/Serg1oA/news-now-quick/events"
	"github.com/Serg1oA/news-now-quick/fetcher"
	"github.com/Serg1oA/news-now-quick/handler"
	"github.com/Serg1oA/news-now-quick/middleware"
	"github.com/Serg1oA/news-now-quick/model"
	"github.com/Serg1oA/news-now-quick/service"
	"github.com/Serg1oA/news-now-quick/translate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUpstream records every call it receives.
type stubUpstream struct {
	mu      sync.Mutex
	queries []url.Values
	status  int
	body    string
	delay   time.Duration
}

func (s *stubUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.queries = append(s.queries, r.URL.Query())
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.delay):
		}
	}
	if s.status != 0 {
		w.WriteHeader(s.status)
	}
	w.Write([]byte(s.body))
}

func (s *stubUpstream) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *stubUpstream) last() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[len(s.queries)-1]
}

func newTestRouter(t *testing.T, stub *stubUpstream, timeout time.Duration) *gin.Engine {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GNewsAPIKey:     "super-secret-key",
		GNewsBaseURL:    srv.URL,
		AllowedOrigins:  []string{"*"},
		UpstreamTimeout: timeout,
	}
	svc := service.NewNewsService(fetcher.NewFetcher(cfg), events.Nop{}, translate.Translator{})
	return Setup(cfg, handler.NewNewsHandler(svc), nil)
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const twoArticles = `{
	"totalArticles": 87,
	"articles": [
		{"title": "First", "description": "d1", "url": "https://a.test/1", "image": "https://a.test/1.jpg",
		 "publishedAt": "2025-03-15T07:00:00Z", "source": {"name": "A Times", "url": "https://a.test"}},
		{"title": "Second", "publishedAt": "2025-03-15T06:00:00Z"}
	]
}`

func TestNewsEndToEnd(t *testing.T) {
	stub := &stubUpstream{body: twoArticles}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/news?topic=technology&language=en&country=us&dateRange=today&max=3")
	require.Equal(t, http.StatusOK, w.Code)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Articles, 2)
	for _, a := range env.Articles {
		assert.Equal(t, "Technology", a.Category)
		assert.Equal(t, "us", a.Country)
		assert.Equal(t, "en", a.Language)
	}
	require.NotNil(t, env.Total)
	assert.Equal(t, 87, *env.Total)
	assert.Equal(t, "gnews_0_2025-03-15T07:00:00Z", env.Articles[0].ID)
	assert.Equal(t, "Unknown Source", env.Articles[1].Source)

	q := stub.last()
	assert.Equal(t, "technology", q.Get("category"))
	assert.Equal(t, "us", q.Get("country"))
	assert.Equal(t, "3", q.Get("max"))
	assert.True(t, strings.HasSuffix(q.Get("from"), "T00:00:00Z"))
}

func TestNewsTotalFallsBackToCount(t *testing.T) {
	stub := &stubUpstream{body: `{"articles": [{"title": "x"}, {"title": "y"}]}`}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/news?topic=technology&language=en&country=us&dateRange=today&max=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["total"])
}

func TestNewsDefaults(t *testing.T) {
	stub := &stubUpstream{body: `{"articles": []}`}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/news")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["articles"])

	q := stub.last()
	assert.Equal(t, "general", q.Get("category"))
	assert.Equal(t, "en", q.Get("lang"))
	assert.Equal(t, "10", q.Get("max"))
	assert.False(t, q.Has("country"))
	assert.NotEmpty(t, q.Get("from"), "default range is week")
}

func TestNewsWithQueryOmitsCategory(t *testing.T) {
	stub := &stubUpstream{body: `{"articles": [{}]}`}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/news?topic=sports&q=world+cup")
	require.Equal(t, http.StatusOK, w.Code)

	q := stub.last()
	assert.Equal(t, "world cup", q.Get("q"))
	assert.False(t, q.Has("category"))
}

func TestMaxClamp(t *testing.T) {
	cases := map[string]string{
		"500": "100",
		"100": "100",
		"0":   "1",
		"-4":  "1",
		"abc": "10",
		"7":   "7",
		"3.5": "10",
		"":    "10",
	}
	for in, want := range cases {
		stub := &stubUpstream{body: `{"articles": []}`}
		r := newTestRouter(t, stub, 2*time.Second)

		w := get(r, "/api/news?max="+url.QueryEscape(in))
		require.Equal(t, http.StatusOK, w.Code, "max=%q", in)
		assert.Equal(t, want, stub.last().Get("max"), "max=%q", in)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	stub := &stubUpstream{body: `{"articles": []}`}
	r := newTestRouter(t, stub, 2*time.Second)

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		w := get(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)

		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Search query is required", body["error"])
		assert.Equal(t, []any{}, body["articles"])
	}
	assert.Zero(t, stub.calls())
}

func TestSearch(t *testing.T) {
	stub := &stubUpstream{body: twoArticles}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/search?q=climate&language=de&country=uk&dateRange=year&max=500&topic=sports")
	require.Equal(t, http.StatusOK, w.Code)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Articles, 2)
	assert.Equal(t, "General", env.Articles[0].Category)
	assert.Equal(t, "gb", env.Articles[0].Country)

	q := stub.last()
	assert.Equal(t, "climate", q.Get("q"))
	assert.Equal(t, "de", q.Get("lang"))
	assert.Equal(t, "gb", q.Get("country"))
	assert.Equal(t, "100", q.Get("max"))
	assert.False(t, q.Has("category"))
}

func TestUpstreamFailureIsSafe500(t *testing.T) {
	cases := map[string]*stubUpstream{
		"non-2xx": {status: http.StatusForbidden, body: `{"errors":["super-secret-key is invalid"]}`},
		"timeout": {delay: time.Second, body: `{"articles": []}`},
	}
	for name, stub := range cases {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(t, stub, 50*time.Millisecond)

			for _, target := range []string{"/api/news?topic=business", "/api/search?q=markets"} {
				w := get(r, target)
				require.Equal(t, http.StatusInternalServerError, w.Code, target)

				body := decode(t, w)
				assert.Equal(t, false, body["success"])
				assert.Equal(t, fetcher.MsgUpstreamUnavailable, body["error"])
				assert.Equal(t, []any{}, body["articles"])
				assert.NotContains(t, w.Body.String(), "super-secret-key")
			}
		})
	}
}

func TestMalformedUpstreamIsInternal(t *testing.T) {
	stub := &stubUpstream{body: `{"articles": "nope"`}
	r := newTestRouter(t, stub, 2*time.Second)

	w := get(r, "/api/news")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, fetcher.MsgInternal, decode(t, w)["error"])
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t, &stubUpstream{}, time.Second)

	w := get(r, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found", decode(t, w)["error"])
}

func TestIndexAndHealth(t *testing.T) {
	r := newTestRouter(t, &stubUpstream{}, time.Second)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/static/app.js")

	w = get(r, "/static/app.js")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestPanicRecovery(t *testing.T) {
	r := newTestRouter(t, &stubUpstream{}, time.Second)
	r.GET("/boom", func(c *gin.Context) { panic("database password is hunter2") })

	w := get(r, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestRateLimitedGroup(t *testing.T) {
	srv := httptest.NewServer(&stubUpstream{body: `{"articles": []}`})
	defer srv.Close()

	cfg := &config.Config{GNewsAPIKey: "k", GNewsBaseURL: srv.URL, UpstreamTimeout: time.Second}
	svc := service.NewNewsService(fetcher.NewFetcher(cfg), events.Nop{}, translate.Translator{})
	r := Setup(cfg, handler.NewNewsHandler(svc), middleware.NewRateLimiter(0.001, 1))

	assert.Equal(t, http.StatusOK, get(r, "/api/news").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/news").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health").Code, "health is not limited")
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, &stubUpstream{body: `{"articles": []}`}, time.Second)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.Header.Set("Origin", "http://frontend.test")
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
