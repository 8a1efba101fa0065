package behavior

import "errors"

var (
	ErrUnknownKind    = errors.New("behavior: unknown transition kind")
	ErrMissingProgram = errors.New("behavior: continuous transition has no compiled rate program")
)
