package stepexec

import "errors"

var (
	ErrValidationFailed = errors.New("stepexec: validation failed")
	ErrCommitFailed     = errors.New("stepexec: commit failed")
)
