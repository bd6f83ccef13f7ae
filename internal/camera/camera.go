package camera

import (
	"context"
	"errors"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
	StatusActive     Status = "active"
	StatusDenied     Status = "denied"
	StatusError      Status = "error"
)

type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

func (f FacingMode) Valid() bool {
	return f == FacingUser || f == FacingEnvironment
}

func (f FacingMode) Flip() FacingMode {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Preferred capture resolution, treated as ideal rather than exact.
const (
	IdealWidth  = 1280
	IdealHeight = 720
)

type Constraints struct {
	Facing FacingMode
	Width  int
	Height int
}

// Stream is a live capture handle. It must be stopped exactly once;
// Stop releases the underlying device lock.
type Stream interface {
	Stop()
}

// Device is the platform camera boundary. Open blocks until the
// platform grants or refuses access. Failures are classified with the
// sentinel errors below via errors.Is.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

var (
	// ErrPermissionDenied marks an explicit refusal by the user or platform.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrDeviceUnavailable marks a missing, busy, or incapable device.
	ErrDeviceUnavailable = errors.New("camera device unavailable")

	// ErrAcquirePending rejects an open while a prior one is still resolving.
	ErrAcquirePending = errors.New("camera acquisition already pending")
	// ErrInvalidState rejects an operation not allowed from the current status.
	ErrInvalidState = errors.New("operation not valid in current camera state")
)
