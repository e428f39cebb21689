package simulator

import "errors"

// Sentinel kinds for simulation failures.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrUnhealthy     = errors.New("collector is not healthy")
	ErrVerification  = errors.New("collector verification failed")
)
