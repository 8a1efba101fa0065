package integrate

import "errors"

var ErrNoContinuousTransitions = errors.New("integrate: no continuous transitions in set C")
