package rate

import "errors"

var (
	ErrEmptyExpr       = errors.New("rate: empty expression")
	ErrUnexpectedToken = errors.New("rate: unexpected token")
	ErrUnexpectedEOF   = errors.New("rate: unexpected end of expression")
	ErrUnknownFunc     = errors.New("rate: unknown function")
	ErrWrongArgCount   = errors.New("rate: wrong number of arguments")
	ErrUnknownIdent    = errors.New("rate: unknown identifier")
	ErrNonFinite       = errors.New("rate: expression produced a non-finite result")
)
