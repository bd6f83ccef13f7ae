package simcam_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trynbuy/storefront/internal/camera"
	"github.com/trynbuy/storefront/internal/config"
	"github.com/trynbuy/storefront/internal/repo/simcam"
)

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := simcam.New(config.CameraConfig{Mode: "maybe"})
	require.Error(t, err)
}

func TestOpenModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		wantErr error
	}{
		{name: "grant hands out a stream", mode: simcam.ModeGrant},
		{name: "deny refuses permission", mode: simcam.ModeDeny, wantErr: camera.ErrPermissionDenied},
		{name: "unavailable reports no device", mode: simcam.ModeUnavailable, wantErr: camera.ErrDeviceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, err := simcam.New(config.CameraConfig{Mode: tt.mode})
			require.NoError(t, err)

			stream, err := device.Open(context.Background(), camera.Constraints{Facing: camera.FacingUser})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, stream)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, stream)
			stream.Stop()
		})
	}
}

func TestSecondOpenFailsWhileHeld(t *testing.T) {
	device, err := simcam.New(config.CameraConfig{Mode: simcam.ModeGrant})
	require.NoError(t, err)

	first, err := device.Open(context.Background(), camera.Constraints{Facing: camera.FacingUser})
	require.NoError(t, err)

	_, err = device.Open(context.Background(), camera.Constraints{Facing: camera.FacingEnvironment})
	assert.ErrorIs(t, err, camera.ErrDeviceUnavailable)

	// Stop releases the lock; Stop again stays harmless
	first.Stop()
	first.Stop()

	second, err := device.Open(context.Background(), camera.Constraints{Facing: camera.FacingEnvironment})
	require.NoError(t, err)
	second.Stop()
}

func TestOpenHonorsPromptDelayCancellation(t *testing.T) {
	device, err := simcam.New(config.CameraConfig{Mode: simcam.ModeGrant, PromptDelay: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = device.Open(ctx, camera.Constraints{Facing: camera.FacingUser})
	assert.ErrorIs(t, err, camera.ErrDeviceUnavailable)
}
