package session

import "errors"

// Sentinel errors for broker operations. Callers check them with errors.Is.
var (
	// ErrConnectionFailed is returned when the initial connection attempt fails.
	ErrConnectionFailed = errors.New("session: connection failed")

	// ErrConnectionLost is returned when an established connection drops.
	ErrConnectionLost = errors.New("session: connection lost")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("session: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("session: subscribe failed")

	// ErrUnsubscribeFailed is returned when an unsubscribe operation fails.
	// This is a warning-only condition during shutdown.
	ErrUnsubscribeFailed = errors.New("session: unsubscribe failed")
)
