package explore

import (
	"context"
	"sync"
	"time"

	"careerpath_portal/models"

	"go.uber.org/zap"
)

// DefaultPageIdle is how long an unused page is kept before Sweep drops it.
const DefaultPageIdle = 30 * time.Minute

type registryEntry struct {
	page     *Page
	lastUsed time.Time
}

// Registry keeps one Page per portal session. Pages are dropped on logout,
// when their session disappears, or after sitting idle.
type Registry struct {
	api    Upstream
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	pages map[string]*registryEntry
}

func NewRegistry(api Upstream, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{api: api, logger: logger, now: time.Now, pages: make(map[string]*registryEntry)}
}

// Open returns the page kept for key with its principal updated. An empty
// key is an anonymous visitor and gets a fresh page that is not kept.
func (r *Registry) Open(key, token string, user *models.User) *Page {
	if key == "" {
		return NewPage(r.api, "", nil, r.logger)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.pages[key]; ok {
		e.page.SetPrincipal(token, user)
		e.lastUsed = r.now()
		return e.page
	}
	p := NewPage(r.api, token, user, r.logger.With(zap.String("session", key)))
	r.pages[key] = &registryEntry{page: p, lastUsed: r.now()}
	return p
}

func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, key)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep drops every page that has not been opened for idle and returns how
// many were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for key, e := range r.pages {
		if e.lastUsed.Before(cutoff) {
			delete(r.pages, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle pages every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	if idle <= 0 {
		idle = DefaultPageIdle
	}
	if interval <= 0 {
		interval = idle / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Debug("dropped idle pages", zap.Int("count", n))
			}
		}
	}
}
