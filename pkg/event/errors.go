package event

import "errors"

var (
	ErrMissingDeclaration   = errors.New("missing event declaration")
	ErrMalformedDeclaration = errors.New("malformed event declaration")
	ErrOutsideOwner         = errors.New("event declared outside of a handler")
)
