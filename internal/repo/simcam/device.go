// Package simcam is the platform stand-in behind camera.Device: the
// service has no real capture hardware, so grants, refusals, and the
// permission-prompt delay are simulated from configuration.
package simcam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/trynbuy/storefront/internal/camera"
	"github.com/trynbuy/storefront/internal/config"
)

const (
	ModeGrant       = "grant"
	ModeDeny        = "deny"
	ModeUnavailable = "unavailable"
)

// Device hands out at most one live stream, like a real camera lock: a
// second open while one is held fails as busy until Stop releases it.
type Device struct {
	mode  string
	delay time.Duration

	mu     sync.Mutex
	held   bool
	opened int
}

func New(cfg config.CameraConfig) (*Device, error) {
	switch cfg.Mode {
	case ModeGrant, ModeDeny, ModeUnavailable:
	default:
		return nil, fmt.Errorf("unknown camera mode %q", cfg.Mode)
	}
	return &Device{mode: cfg.Mode, delay: cfg.PromptDelay}, nil
}

func (d *Device) Open(ctx context.Context, c camera.Constraints) (camera.Stream, error) {
	// the platform's own prompt governs how long requesting persists
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", camera.ErrDeviceUnavailable, ctx.Err())
	}

	switch d.mode {
	case ModeDeny:
		return nil, camera.ErrPermissionDenied
	case ModeUnavailable:
		return nil, fmt.Errorf("%w: no capture device present", camera.ErrDeviceUnavailable)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held {
		return nil, fmt.Errorf("%w: device already claimed", camera.ErrDeviceUnavailable)
	}
	d.held = true
	d.opened++

	return &stream{
		id:      fmt.Sprintf("sim-%s-%d", c.Facing, d.opened),
		release: d.release,
	}, nil
}

func (d *Device) release() {
	d.mu.Lock()
	d.held = false
	d.mu.Unlock()
}

type stream struct {
	id      string
	release func()
	once    sync.Once
}

func (s *stream) Stop() {
	s.once.Do(s.release)
}

func (s *stream) ID() string {
	return s.id
}
