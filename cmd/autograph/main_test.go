package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompose(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.png")
	out := filepath.Join(dir, "signed.png")

	img := imaging.New(120, 60, color.Transparent)
	for x := 20; x < 100; x++ {
		img.SetNRGBA(x, 30, color.NRGBA{A: 0xff})
	}
	require.NoError(t, imaging.Save(img, in))

	_, err := run(t, "compose", "--in", in, "--out", out, "--name", "Ana Maria")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	_, err = run(t, "compose", "--in", in, "--out", out)
	assert.Error(t, err)
}

func newAssetServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.js" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "asset "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeCacheConfig(t *testing.T, dir, name, origin string, manifest ...string) string {
	t.Helper()

	path := filepath.Join(dir, name+".toml")
	content := fmt.Sprintf("name = %q\norigin = %q\nmanifest = [", name, origin)
	for i, m := range manifest {
		if i > 0 {
			content += ", "
		}
		content += fmt.Sprintf("%q", m)
	}
	content += "]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCache(t *testing.T) {
	srv := newAssetServer(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "cache.db")

	v1 := writeCacheConfig(t, dir, "v1", srv.URL, "/", "/app.js")
	v2 := writeCacheConfig(t, dir, "v2", srv.URL, "/", "/style.css")
	broken := writeCacheConfig(t, dir, "v3", srv.URL, "/", "/missing.js")

	out, err := run(t, "cache", "install", "--config", v1, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "v1 installed (2 assets)\n", out)

	out, err = run(t, "cache", "keys", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("v1\n  %s/\n  %s/app.js\n", srv.URL, srv.URL), out)

	_, err = run(t, "cache", "install", "--config", broken, "--db", db)
	assert.Error(t, err)

	_, err = run(t, "cache", "install", "--config", v2, "--db", db)
	require.NoError(t, err)

	out, err = run(t, "cache", "keys", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("v2\n  %s/\n  %s/style.css\n", srv.URL, srv.URL), out)

	out, err = run(t, "cache", "prune", "--config", v1, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "pruned 1 namespaces\n", out)

	out, err = run(t, "cache", "keys", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, out)
}
