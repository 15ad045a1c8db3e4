package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle stage of a Worker.
type State int

const (
	// Installing is the state of a new worker, until its assets are stored.
	Installing State = iota
	// Installed workers hold a complete copy of the manifest and wait for activation.
	Installed
	// Active workers answer the requests from their namespace.
	Active
	// Redundant workers failed to install or have been replaced. They no longer use the cache.
	Redundant
)

func (s State) String() string {
	switch s {
	case Installing:
		return "installing"
	case Installed:
		return "installed"
	case Active:
		return "active"
	case Redundant:
		return "redundant"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// via is appended to the Via header of the forwarded requests. A request already carrying it
// means the origin points back to this server.
const via = "1.1 autograph"

// Fetcher performs the network requests. *http.Client satisfies it.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Worker intercepts the asset requests of one cache version.
// Once active it answers from its namespace and stores the successful
// same-origin responses it had to fetch from the network.
type Worker struct {
	cfg     Config
	origin  *url.URL
	storage Storage
	client  Fetcher
	logger  *log.Logger

	mu    sync.RWMutex
	state State
	ns    Namespace

	// pending tracks the stores started after a network fetch.
	pending sync.WaitGroup
}

// Option customizes a Worker.
type Option func(*Worker)

// WithClient sets the client used for the network requests. Default: http.DefaultClient.
func WithClient(c Fetcher) Option { return func(w *Worker) { w.client = c } }

// WithLogger sets the logger. Default: log.Default().
func WithLogger(l *log.Logger) Option { return func(w *Worker) { w.logger = l } }

// New creates a worker in the Installing state.
func New(cfg Config, storage Storage, opts ...Option) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}

	w := &Worker{
		cfg:     cfg,
		origin:  origin,
		storage: storage,
		client:  http.DefaultClient,
		logger:  log.Default(),
		state:   Installing,
	}
	for _, o := range opts {
		o(w)
	}
	w.logger = w.logger.With("cache", cfg.Name)
	return w, nil
}

// Name returns the cache version handled by the worker.
func (w *Worker) Name() string {
	return w.cfg.Name
}

// State returns the current lifecycle stage.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Install fetches every manifest asset concurrently and stores them in the worker's namespace.
// It is all or nothing: a single failed asset aborts the install, nothing is stored
// and the worker becomes redundant.
func (w *Worker) Install(ctx context.Context) error {
	if s := w.State(); s != Installing {
		return fmt.Errorf("install %s: worker is %s", w.cfg.Name, s)
	}

	entries, err := w.precache(ctx)
	if err != nil {
		w.setState(Redundant)
		w.logger.Error("Install failed", "err", err)
		return fmt.Errorf("install %s: %w", w.cfg.Name, err)
	}

	existed, err := w.storage.Has(ctx, w.cfg.Name)
	if err != nil {
		w.setState(Redundant)
		return fmt.Errorf("install %s: %w", w.cfg.Name, err)
	}
	ns, err := w.storage.Open(ctx, w.cfg.Name)
	if err == nil {
		for i, p := range w.cfg.Manifest {
			if err = ns.Put(ctx, w.key(w.resolve(p)), entries[i]); err != nil {
				break
			}
		}
	}
	if err != nil {
		if !existed {
			if _, derr := w.storage.Delete(context.WithoutCancel(ctx), w.cfg.Name); derr != nil {
				err = errors.Join(err, derr)
			}
		}
		w.setState(Redundant)
		w.logger.Error("Install failed", "err", err)
		return fmt.Errorf("install %s: %w", w.cfg.Name, err)
	}

	w.mu.Lock()
	w.ns = ns
	w.state = Installed
	w.mu.Unlock()

	w.logger.Info("Installed", "assets", len(entries))
	return nil
}

// precache downloads the manifest. Every asset must answer with a 2xx status.
func (w *Worker) precache(ctx context.Context) ([]*Entry, error) {
	entries := make([]*Entry, len(w.cfg.Manifest))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range w.cfg.Manifest {
		i, p := i, p
		g.Go(func() error {
			u := w.resolve(p)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return err
			}
			resp, err := w.client.Do(req)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", u, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", u, err)
			}
			entries[i] = &Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Activate removes every namespace left by the other versions and makes the worker active.
// It returns once all the deletions are complete, with the names of the evicted namespaces.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	if s := w.State(); s != Installed {
		return nil, fmt.Errorf("activate %s: %w (worker is %s)", w.cfg.Name, ErrNotInstalled, s)
	}

	names, err := w.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", w.cfg.Name, err)
	}
	stale := Stale(names, w.cfg.Name)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range stale {
		name := name
		g.Go(func() error {
			if _, err := w.storage.Delete(gctx, name); err != nil {
				return fmt.Errorf("evict %s: %w", name, err)
			}
			w.logger.Debug("Evicted", "namespace", name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("activate %s: %w", w.cfg.Name, err)
	}

	w.setState(Active)
	w.logger.Info("Activated", "evicted", len(stale))
	return stale, nil
}

// retire marks a replaced worker as redundant. It stops reading from the cache.
func (w *Worker) retire() {
	w.mu.Lock()
	w.state = Redundant
	w.ns = nil
	w.mu.Unlock()
}

// Fetch answers req. An active worker looks up the GET requests in its namespace first and
// returns a stored response unchanged, without revalidation. On a miss the request goes to the network:
// successful (200) same-origin responses that were not redirected are stored as well,
// anything else is passed through as is. Network errors are returned unchanged.
func (w *Worker) Fetch(req *http.Request) (*http.Response, error) {
	w.mu.RLock()
	ns, active := w.ns, w.state == Active
	w.mu.RUnlock()

	if !active || req.Method != http.MethodGet {
		return w.client.Do(req)
	}

	key := w.key(req.URL)
	e, err := ns.Match(req.Context(), key)
	switch {
	case err == nil:
		return e.Response(req), nil
	case !errors.Is(err, ErrNotFound):
		w.logger.Warn("Cache lookup failed", "url", key, "err", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	if !w.cacheable(req, resp) {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	// The response doesn't wait for the store.
	entry := &Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		if err := ns.Put(context.Background(), key, entry); err != nil {
			w.logger.Warn("Cache store failed", "url", key, "err", err)
		}
	}()
	return resp, nil
}

// cacheable reports whether resp is a basic response: status 200, same origin and not redirected.
func (w *Worker) cacheable(req *http.Request, resp *http.Response) bool {
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if req.URL.Scheme != w.origin.Scheme || req.URL.Host != w.origin.Host {
		return false
	}
	if resp.Request != nil && resp.Request.URL != nil && w.key(resp.Request.URL) != w.key(req.URL) {
		return false
	}
	return true
}

// Wait blocks until the pending stores are complete.
func (w *Worker) Wait() {
	w.pending.Wait()
}

// ServeHTTP forwards the request to the origin through Fetch and copies the response back.
// A network failure is reported as 502 Bad Gateway, there is no offline fallback page.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if strings.Contains(strings.Join(r.Header.Values("Via"), ","), via) {
		http.Error(rw, http.StatusText(http.StatusLoopDetected), http.StatusLoopDetected)
		return
	}
	target := w.origin.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	req.ContentLength = r.ContentLength
	req.Header = r.Header.Clone()
	// Let the transport negotiate the compression, so the stored bodies are always plain.
	req.Header.Del("Accept-Encoding")
	req.Header.Add("Via", via)

	resp, err := w.Fetch(req)
	if err != nil {
		w.logger.Warn("Fetch failed", "url", target, "err", err)
		http.Error(rw, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		rw.Header()[k] = v
	}
	rw.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(rw, resp.Body); err != nil {
		w.logger.Debug("Copy response failed", "url", target, "err", err)
	}
}

// resolve returns the absolute URL of a manifest path.
func (w *Worker) resolve(p string) *url.URL {
	ref, err := url.Parse(p)
	if err != nil {
		return w.origin.JoinPath(p)
	}
	return w.origin.ResolveReference(ref)
}

// key identifies a request in the namespace: the absolute URL without fragment.
func (w *Worker) key(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	return k.String()
}
