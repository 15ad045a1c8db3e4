package cache

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Namespaces(t *testing.T) {
	ctx := context.Background()

	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			for _, n := range []string{"v1", "v0", "v2"} {
				_, err := s.Open(ctx, n)
				require.NoError(t, err)
			}
			// Opening an existing namespace must not create a duplicate.
			_, err = s.Open(ctx, "v1")
			require.NoError(t, err)

			keys, err = s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"v1", "v0", "v2"}, keys)

			ok, err := s.Has(ctx, "v0")
			require.NoError(t, err)
			assert.True(t, ok)

			deleted, err := s.Delete(ctx, "v0")
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = s.Delete(ctx, "v0")
			require.NoError(t, err)
			assert.False(t, deleted)

			ok, err = s.Has(ctx, "v0")
			require.NoError(t, err)
			assert.False(t, ok)

			keys, err = s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"v1", "v2"}, keys)
		})
	}
}

func TestStorage_Entries(t *testing.T) {
	ctx := context.Background()

	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ns, err := s.Open(ctx, "v1")
			require.NoError(t, err)

			_, err = ns.Match(ctx, "http://localhost/app.js")
			assert.ErrorIs(t, err, ErrNotFound)

			header := http.Header{"Content-Type": {"text/javascript"}}
			require.NoError(t, ns.Put(ctx, "http://localhost/app.js", &Entry{Status: 200, Header: header, Body: []byte("v1")}))
			require.NoError(t, ns.Put(ctx, "http://localhost/style.css", &Entry{Status: 200, Body: []byte("body")}))
			// Replacing an entry keeps its position.
			require.NoError(t, ns.Put(ctx, "http://localhost/app.js", &Entry{Status: 200, Header: header, Body: []byte("v2")}))

			e, err := ns.Match(ctx, "http://localhost/app.js")
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, e.Status)
			assert.Equal(t, "text/javascript", e.Header.Get("Content-Type"))
			assert.Equal(t, []byte("v2"), e.Body)

			keys, err := ns.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"http://localhost/app.js", "http://localhost/style.css"}, keys)

			// The entries are dropped together with their namespace.
			_, err = s.Delete(ctx, "v1")
			require.NoError(t, err)
			ns, err = s.Open(ctx, "v1")
			require.NoError(t, err)
			keys, err = ns.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestSQLite_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	ns, err := db.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, ns.Put(ctx, "http://localhost/", &Entry{Status: 200, Body: []byte("index")}))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	keys, err := db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, keys)

	ns, err = db.Open(ctx, "v1")
	require.NoError(t, err)
	e, err := ns.Match(ctx, "http://localhost/")
	require.NoError(t, err)
	assert.Equal(t, []byte("index"), e.Body)
}

func TestEntry_Response(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://localhost/app.js", nil)
	require.NoError(t, err)

	e := &Entry{Status: http.StatusOK, Header: http.Header{"X-Test": {"1"}}, Body: []byte("app")}
	r1 := e.Response(req)
	r2 := e.Response(req)

	assert.Equal(t, "200 OK", r1.Status)
	assert.Equal(t, int64(3), r1.ContentLength)
	assert.Same(t, req, r1.Request)

	// Each response owns its header and body.
	r1.Header.Set("X-Test", "2")
	assert.Equal(t, "1", e.Header.Get("X-Test"))

	b1 := make([]byte, 3)
	_, err = r1.Body.Read(b1)
	require.NoError(t, err)
	b2 := make([]byte, 3)
	_, err = r2.Body.Read(b2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}
