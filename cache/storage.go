package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Entry is a stored response.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

// Response rebuilds an HTTP response from the entry, answering req.
// Every call returns an independent body reader.
func (e *Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Namespace is a named set of request to response pairs, usually holding one version of the assets.
type Namespace interface {
	// Match returns the entry stored under key or ErrNotFound.
	Match(ctx context.Context, key string) (*Entry, error)
	// Put stores the entry under key, replacing any previous one.
	Put(ctx context.Context, key string, e *Entry) error
	// Keys lists the stored keys in insertion order.
	Keys(ctx context.Context) ([]string, error)
}

// Storage holds the namespaces.
type Storage interface {
	// Open returns the namespace called name, creating it if needed.
	Open(ctx context.Context, name string) (Namespace, error)
	// Has reports whether the namespace exists.
	Has(ctx context.Context, name string) (bool, error)
	// Keys lists the namespace names in creation order.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes the namespace with all of its entries.
	// It reports whether a namespace has been deleted.
	Delete(ctx context.Context, name string) (bool, error)
}
