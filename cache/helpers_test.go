package cache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("network unreachable")

// testClient counts the network calls and can simulate a lost connection.
type testClient struct {
	inner   *http.Client
	calls   atomic.Int32
	offline atomic.Bool
}

func (c *testClient) Do(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	if c.offline.Load() {
		return nil, errOffline
	}
	return c.inner.Do(req)
}

// origin serves the page assets. The content of an asset can be changed while serving.
type origin struct {
	*httptest.Server
	mu     sync.Mutex
	assets map[string]string
}

func newOrigin(t *testing.T) *origin {
	t.Helper()

	o := &origin{assets: map[string]string{
		"/":           "<html>index</html>",
		"/index.html": "<html>index</html>",
		"/style.css":  "body { margin: 0 }",
		"/app.js":     "console.log('app')",
		"/icon.png":   "\x89PNG icon",
		"/extra.js":   "console.log('extra')",
	}}
	o.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old.js" {
			http.Redirect(w, r, "/app.js", http.StatusFound)
			return
		}
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		o.mu.Lock()
		body, ok := o.assets[r.URL.Path]
		o.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(o.Close)
	return o
}

func (o *origin) set(path, body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.assets[path] = body
}

func testConfig(o *origin, name string) Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Origin = o.URL
	return cfg
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// storages returns a fresh instance of every Storage implementation.
func storages(t *testing.T) map[string]Storage {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"sqlite": db,
	}
}

func get(t *testing.T, w *Worker, url string) (*http.Response, string, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := w.Fetch(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body), nil
}
