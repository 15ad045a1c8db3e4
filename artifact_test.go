package autograph

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifact_Filename(t *testing.T) {
	cases := map[string]string{
		"Ana":                  "assinatura_Ana.png",
		"Ana Maria":            "assinatura_Ana_Maria.png",
		"Ana   Maria\tSilva":   "assinatura_Ana_Maria_Silva.png",
		" João  da\nSilva ":    "assinatura__João_da_Silva_.png",
		"Maria\u00a0\u2003Luz": "assinatura_Maria_Luz.png",
		"Ana\vMaria":           "assinatura_Ana_Maria.png",
		"Ana\u2028Maria\u2029": "assinatura_Ana_Maria_.png",
		"\ufeffAna\fMaria":     "assinatura__Ana_Maria.png",
	}
	for name, want := range cases {
		a := &Artifact{Name: name}
		assert.Equal(t, want, a.Filename(), "name %q", name)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	// Nothing generated yet, nothing to save.
	path, err := Export(nil, dir)
	assert.NoError(t, err)
	assert.Empty(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	a := &Artifact{Name: "Ana Maria", Data: []byte("\x89PNG payload")}
	path, err = Export(a, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "assinatura_Ana_Maria.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Data, data)

	_, err = Export(a, filepath.Join(dir, "missing", "folder"))
	assert.Error(t, err)
}

func TestArtifact_WriteTo(t *testing.T) {
	a := &Artifact{Data: []byte{1, 2, 3}}

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []byte{1, 2, 3}, buf.Bytes())
}
