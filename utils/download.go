package utils

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DownloadImage fetches a remote image and returns its raw content.
// The response is rejected if the server does not answer with 200 OK
// or if the payload does not look like an image.
func DownloadImage(uri string) ([]byte, error) {
	res, err := http.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI %s, status %v", uri, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	if ctype := DetectContentType(data); !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("the downloaded file is not a valid image type: %s", ctype)
	}

	return data, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	_, err := url.ParseRequestURI(uri)
	if err != nil {
		return false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// DetectContentType detects the MIME type of the content.
// Only the first 512 bytes are used to sniff the content type.
// It always returns a valid content-type and "application/octet-stream" if no others seemed to match.
func DetectContentType(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}
