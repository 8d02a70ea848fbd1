package crawler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wikiStub counts hits per path and answers with scripted statuses
type wikiStub struct {
	mu        sync.Mutex
	hits      map[string]int
	userAgent string
}

func (s *wikiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	hit := s.hits[r.URL.Path]
	s.userAgent = r.UserAgent()
	s.mu.Unlock()

	switch r.URL.Path {
	case "/wiki/Python_(programming_language)", "/wiki/Guido_van_Rossum":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(sampleHTML))
	case "/wiki/Flaky":
		if hit == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleHTMLNoLinks))
	case "/wiki/Broken":
		w.WriteHeader(http.StatusInternalServerError)
	default:
		http.NotFound(w, r)
	}
}

func (s *wikiStub) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestFetcher(t *testing.T) (*WikiFetcher, *wikiStub) {
	t.Helper()
	stub := &wikiStub{hits: make(map[string]int)}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL + "/wiki/"
	cfg.RetryDelayMs = 1

	f := NewWikiFetcher(cfg)
	t.Cleanup(f.Close)
	return f, stub
}

func TestFetcherReturnsBody(t *testing.T) {
	f, stub := newTestFetcher(t)

	body := f.Fetch("Python_(programming_language)")
	assert.Equal(t, sampleHTML, body)
	assert.Equal(t, 1, stub.count("/wiki/Python_(programming_language)"))
	assert.Contains(t, stub.userAgent, "WordFrequencyBot")
}

func TestFetcherReplacesSpaces(t *testing.T) {
	f, stub := newTestFetcher(t)

	assert.NotEmpty(t, f.Fetch("Guido van Rossum"))
	assert.Equal(t, 1, stub.count("/wiki/Guido_van_Rossum"))
}

func TestFetcherNotFoundIsNotRetried(t *testing.T) {
	f, stub := newTestFetcher(t)

	assert.Equal(t, "", f.Fetch("Missing"))
	assert.Equal(t, 1, stub.count("/wiki/Missing"))
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	f, stub := newTestFetcher(t)

	assert.Equal(t, "", f.Fetch("Broken"))
	assert.Equal(t, 3, stub.count("/wiki/Broken"))
}

func TestFetcherRecoversAfterTransientError(t *testing.T) {
	f, stub := newTestFetcher(t)

	assert.Equal(t, sampleHTMLNoLinks, f.Fetch("Flaky"))
	assert.Equal(t, 2, stub.count("/wiki/Flaky"))
}

func TestFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/wiki/"
	srv.Close()

	cfg := config.Default()
	cfg.BaseURL = base
	cfg.RetryAttempts = 2
	cfg.RetryDelayMs = 1

	f := NewWikiFetcher(cfg)
	defer f.Close()
	assert.Equal(t, "", f.Fetch("Anything"))
}

func TestFetcherConcurrentUse(t *testing.T) {
	f, stub := newTestFetcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotEmpty(t, f.Fetch("Guido van Rossum"))
		}()
	}
	wg.Wait()
	require.Equal(t, 8, stub.count("/wiki/Guido_van_Rossum"))
}

func TestFetcherURL(t *testing.T) {
	f := NewWikiFetcher(config.Default())
	assert.Equal(t, "https://en.wikipedia.org/wiki/Guido_van_Rossum", f.URL("Guido van Rossum"))
}
