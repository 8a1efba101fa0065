package kernel

import "errors"

var (
	ErrAlreadyRunning = errors.New("kernel: controller is already running")
	ErrNotRunning     = errors.New("kernel: controller is not running")
)
