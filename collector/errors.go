package collector

import "errors"

var ErrSinkClosed = errors.New("collector: sink is closed")
