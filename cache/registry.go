package cache

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Registry controls which worker answers the asset requests.
// A new version is deployed next to the active one and takes over only once it is fully installed.
type Registry struct {
	storage Storage
	opts    []Option
	logger  *log.Logger

	// deploy serializes the deployments.
	deploy sync.Mutex
	active atomic.Pointer[Worker]
	// latest is the last deployed worker, used to reach the network while no worker is active.
	latest atomic.Pointer[Worker]
}

// NewRegistry creates an empty registry. The options are applied to every deployed worker.
func NewRegistry(storage Storage, opts ...Option) *Registry {
	r := &Registry{storage: storage, opts: opts, logger: log.Default()}
	// Resolve the logger the same way the workers do.
	probe := &Worker{logger: r.logger}
	for _, o := range opts {
		o(probe)
	}
	r.logger = probe.logger
	return r
}

// Deploy installs the cfg version and activates it. On failure the previously active worker stays
// in charge. On success the previous worker is retired and its namespace has already been evicted.
func (r *Registry) Deploy(ctx context.Context, cfg Config) (*Worker, error) {
	r.deploy.Lock()
	defer r.deploy.Unlock()

	w, err := New(cfg, r.storage, r.opts...)
	if err != nil {
		return nil, err
	}
	r.latest.Store(w)

	if err := w.Install(ctx); err != nil {
		return nil, err
	}
	evicted, err := w.Activate(ctx)
	if err != nil {
		w.retire()
		return nil, err
	}

	if prev := r.active.Swap(w); prev != nil {
		prev.retire()
		prev.Wait()
	}
	r.logger.Info("Deployed", "cache", cfg.Name, "evicted", evicted)
	return w, nil
}

// Active returns the worker in charge, or nil.
func (r *Registry) Active() *Worker {
	return r.active.Load()
}

// Wait blocks until the pending stores of the active worker are complete.
func (r *Registry) Wait() {
	if w := r.active.Load(); w != nil {
		w.Wait()
	}
}

// ServeHTTP delegates to the active worker. Without an active worker the requests go
// straight to the network, through the last deployed worker.
func (r *Registry) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	w := r.active.Load()
	if w == nil {
		w = r.latest.Load()
	}
	if w == nil {
		http.Error(rw, "no asset cache deployed", http.StatusServiceUnavailable)
		return
	}
	w.ServeHTTP(rw, req)
}
