package camera

import (
	"context"
	"errors"
	"sync"
)

// Snapshot is what the presentation layer observes; it never exposes
// the stream handle itself.
type Snapshot struct {
	Status Status     `json:"status"`
	Facing FacingMode `json:"facing_mode"`
}

// Controller owns acquisition, switching, and teardown of a single
// capture stream. At most one live stream handle exists at any time;
// a facing switch releases the old handle before requesting the new one.
type Controller struct {
	mu      sync.Mutex
	device  Device
	status  Status
	facing  FacingMode
	stream  Stream
	gen     uint64
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewController(device Device) *Controller {
	return &Controller{
		device: device,
		status: StatusIdle,
		facing: FacingUser,
		subs:   make(map[int]func(Snapshot)),
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Status: c.status, Facing: c.facing}
}

// Subscribe registers an observer called on every transition. The
// returned function removes it.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Open requests the capture stream with the given facing preference.
// Valid from idle, denied, and error; denied/error do not require a
// reset before retrying. Acquisition failures are recorded as status
// and also returned, classified as ErrPermissionDenied or
// ErrDeviceUnavailable.
func (c *Controller) Open(ctx context.Context, facing FacingMode) error {
	c.mu.Lock()
	switch c.status {
	case StatusRequesting:
		c.mu.Unlock()
		return ErrAcquirePending
	case StatusActive:
		c.mu.Unlock()
		return ErrInvalidState
	}
	if facing != "" {
		c.facing = facing
	}
	c.gen++
	gen := c.gen
	constraints := Constraints{Facing: c.facing, Width: IdealWidth, Height: IdealHeight}
	notify := c.transitionLocked(StatusRequesting)
	device := c.device
	c.mu.Unlock()
	notify()

	stream, err := device.Open(ctx, constraints)

	c.mu.Lock()
	if c.gen != gen {
		// Closed while the prompt was up; the late grant must not leak.
		c.mu.Unlock()
		if stream != nil {
			stream.Stop()
		}
		return nil
	}
	if err != nil {
		next := StatusError
		if errors.Is(err, ErrPermissionDenied) {
			next = StatusDenied
		}
		notify = c.transitionLocked(next)
		c.mu.Unlock()
		notify()
		return err
	}
	c.stream = stream
	notify = c.transitionLocked(StatusActive)
	c.mu.Unlock()
	notify()
	return nil
}

// Close releases any held stream and returns to idle. Idempotent from
// every state, including mid-acquisition: a pending open that resolves
// after Close stops its stream instead of storing it.
func (c *Controller) Close() {
	c.mu.Lock()
	c.gen++
	stream := c.stream
	c.stream = nil
	var notify func()
	if c.status != StatusIdle {
		notify = c.transitionLocked(StatusIdle)
	}
	c.mu.Unlock()

	if stream != nil {
		stream.Stop()
	}
	if notify != nil {
		notify()
	}
}

// ToggleFacing flips the facing preference from the active state. The
// held stream is released before the new one is requested, so two
// device locks are never held at once.
func (c *Controller) ToggleFacing(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusActive {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.gen++
	stream := c.stream
	c.stream = nil
	next := c.facing.Flip()
	notify := c.transitionLocked(StatusIdle)
	c.mu.Unlock()

	if stream != nil {
		stream.Stop()
	}
	notify()

	return c.Open(ctx, next)
}

// transitionLocked records the new status and returns the deferred
// observer fan-out; callers invoke it after releasing the lock so
// observers may call back into the controller.
func (c *Controller) transitionLocked(next Status) func() {
	c.status = next
	snap := Snapshot{Status: c.status, Facing: c.facing}
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
