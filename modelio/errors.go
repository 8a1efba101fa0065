package modelio

import "errors"

var (
	ErrUnresolvedEndpoint   = errors.New("modelio: arc endpoint does not resolve to any place or transition")
	ErrInvalidSchemaVersion = errors.New("modelio: invalid schema_version")
	ErrAmbiguousEndpoint    = errors.New("modelio: arc endpoint id is ambiguous between a place and a transition")
)
