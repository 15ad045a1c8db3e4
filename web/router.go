// Package web exposes the signature compositor over HTTP, next to the cached page assets.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/esimov/autograph"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxUploadSize limits the multipart body of a signature request.
const maxUploadSize = 10 << 20

// NewRouter returns the HTTP handler of the signing service.
//
//	POST /api/signature  composes the uploaded drawing with the name and answers with the PNG
//	GET  /healthz        liveness probe
//	*                    the page assets, served by assets (usually the cache registry)
func NewRouter(assets http.Handler, comp *autograph.Compositor, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Post("/api/signature", signatureHandler(comp, logger))
	r.Handle("/*", assets)

	return r
}

// signatureHandler expects a multipart form with the "name" field and the "signature" file,
// a transparent image holding the drawn strokes.
func signatureHandler(comp *autograph.Compositor, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, fmt.Sprintf("invalid form: %v", err), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("signature")
		if errors.Is(err, http.ErrMissingFile) {
			http.Error(w, autograph.ErrMissingSignature.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		surface, err := autograph.DecodeSignature(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		art, err := comp.Generate(r.FormValue("name"), surface)
		switch {
		case errors.Is(err, autograph.ErrMissingName), errors.Is(err, autograph.ErrMissingSignature):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case err != nil:
			logger.Error("Signature generation failed", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename()))
		if _, err := art.WriteTo(w); err != nil {
			logger.Debug("Write signature failed", "err", err)
		}
	}
}

// requestLogger logs every request once it has been answered.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.Debug("Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
