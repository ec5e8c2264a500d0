package auction

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDeskIdleTTL applies when DeskConfig.IdleTTL is zero.
const DefaultDeskIdleTTL = 30 * time.Minute

// Registry hands out one desk per serial number so every request for the
// same player sees the same lot and stamp. Desks left untouched for the idle
// TTL are dropped.
type Registry struct {
	backend DeskBackend
	cfg     DeskConfig

	mu    sync.Mutex
	desks map[string]*Desk
}

func NewRegistry(backend DeskBackend, cfg DeskConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultDeskIdleTTL
	}
	return &Registry{
		backend: backend,
		cfg:     cfg,
		desks:   make(map[string]*Desk),
	}
}

// Desk returns the desk for serialNo, creating it on first use.
func (r *Registry) Desk(serialNo string) *Desk {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdle()

	desk, ok := r.desks[serialNo]
	if !ok {
		desk = NewDesk(serialNo, r.backend, r.cfg)
		r.desks[serialNo] = desk
	}
	desk.touch()
	return desk
}

// Release drops the desk for serialNo when all it holds is a failed load,
// so unknown serial numbers do not pile up.
func (r *Registry) Release(serialNo string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if desk, ok := r.desks[serialNo]; ok && desk.disposable() {
		delete(r.desks, serialNo)
	}
}

// Len is the number of desks currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.desks)
}

func (r *Registry) evictIdle() {
	cutoff := r.cfg.Clock.Now().Add(-r.cfg.IdleTTL)
	for serialNo, desk := range r.desks {
		if desk.idleBefore(cutoff) {
			delete(r.desks, serialNo)
		}
	}
}
