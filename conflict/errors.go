package conflict

import "errors"

var ErrNoTransitions = errors.New("conflict: no transitions to select from")
