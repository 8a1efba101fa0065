package schedule

import "errors"

var ErrUnknownTransition = errors.New("schedule: unknown transition id")
