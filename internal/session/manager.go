package session

import (
	"context"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/trynbuy/storefront/internal/camera"
	"github.com/trynbuy/storefront/internal/cart"
	"github.com/trynbuy/storefront/internal/checkout"
	"github.com/trynbuy/storefront/internal/models"
)

// Session bundles the per-shopper mutable state: one cart store, one
// camera controller, one checkout orchestrator. It is the explicit
// construction point for state that the original kept in ambient
// context singletons.
type Session struct {
	ID       string
	Cart     *cart.Store
	Camera   *camera.Controller
	Checkout *checkout.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
	// product currently previewed in the try-on overlay, nil when closed
	preview *models.Product
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// SetPreview records which product the try-on overlay is showing.
func (s *Session) SetPreview(p *models.Product) {
	s.mu.Lock()
	s.preview = p
	s.mu.Unlock()
}

func (s *Session) Preview() *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// teardown releases session resources; closing the camera controller
// also covers an acquisition still pending at expiry.
func (s *Session) teardown() {
	s.Camera.Close()
	s.SetPreview(nil)
}

// Manager owns sessions by shopper-provided ID and sweeps idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	build    func(id string) *Session
	done     chan struct{}
}

type ManagerConfig struct {
	IdleTTL time.Duration
	// Build constructs a fresh session; injected so the wiring layer
	// decides the device, checkout config, and publisher.
	Build func(id string) *Session
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idleTTL:  cfg.IdleTTL,
		build:    cfg.Build,
		done:     make(chan struct{}),
	}
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = m.build(id)
		s.ID = id
		m.sessions[id] = s
	}
	m.mu.Unlock()
	s.touch()
	return s
}

// End tears the session down and forgets it.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.teardown()
	}
}

// Sweep runs the idle expiry loop until Stop.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := m.collectExpired()
			for _, s := range expired {
				log.Infow(ctx, "expiring idle session", "session_id", s.ID)
				s.teardown()
			}
		}
	}
}

// Stop ends the sweep loop and tears down all sessions.
func (m *Manager) Stop() {
	close(m.done)
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.teardown()
	}
}

func (m *Manager) collectExpired() []*Session {
	cutoff := time.Now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []*Session
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	return expired
}
