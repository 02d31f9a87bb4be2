package domain

import "errors"

var (
	// ErrNotFound is returned when an operation names a record identity
	// that does not exist in the store.
	ErrNotFound = errors.New("geo photo not found")

	// ErrCameraNotReady is returned by the capture pipeline when no camera
	// image source is staged. Callers treat it as a no-op.
	ErrCameraNotReady = errors.New("camera not ready")

	// ErrCaptureInFlight is returned when a capture is triggered while a
	// previous one is still running. The second trigger is dropped.
	ErrCaptureInFlight = errors.New("capture already in flight")

	// ErrPermissionDenied is returned when a device permission was refused.
	ErrPermissionDenied = errors.New("permission denied")
)
