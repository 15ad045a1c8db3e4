package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{A: 0xff})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	got, err := DownloadImage(srv.URL + "/signature.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUtils_ShouldRejectNonImageDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not an image</body></html>"))
	}))
	defer srv.Close()

	_, err := DownloadImage(srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldRejectFailedDownload(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := DownloadImage(srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsValidUrl("https://example.com/icon.png"))
	assert.False(IsValidUrl("icon.png"))
	assert.False(IsValidUrl("/icon.png"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	ftype := DetectContentType(pngFixture(t))
	assert.True(t, strings.Contains(ftype, "image"), "content type expected to be of type image, got: %v", ftype)

	assert.Equal(t, "application/octet-stream", DetectContentType([]byte{0x00, 0x01, 0x02}))
}

func TestUtils_MinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(1.5, Abs(-1.5))
	assert.Equal(255, Clamp(300, 0, 255))
	assert.Equal(0, Clamp(-3, 0, 255))
	assert.Equal(177, Clamp(177, 0, 255))
}

func TestUtils_FormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 3.00s", FormatTime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 5.00s", FormatTime(time.Hour+5*time.Second))
	assert.Equal(t, "2d 1h 0m 0.00s", FormatTime(49*time.Hour))
}

func TestUtils_DecorateText(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, "\x1b[32mok\x1b[0m", DecorateText("ok", SuccessMessage))
	assert.Equal(t, "ok", DecorateText("ok", MessageType(42)))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "ok", DecorateText("ok", ErrorMessage))
}

func TestUtils_SpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "composing", time.Millisecond, false)
	s.StopMsg = "done\n"
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop()

	assert.True(t, strings.HasSuffix(buf.String(), "done\n"))
}

func TestUtils_SpinnerNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	s := NewSpinner(&buf, "composing", time.Millisecond, false)
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	assert.Contains(t, buf.String(), "composing ⠋")
	assert.NotContains(t, buf.String(), "\x1b[32m")
}
