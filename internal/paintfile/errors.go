package paintfile

import "errors"

var (
	ErrUnknownType        = errors.New("unknown object type")
	ErrMissingEntry       = errors.New("archive has no " + EntryName + " entry")
	ErrMalformed          = errors.New("malformed paint document")
	ErrUnsupportedVersion = errors.New("unsupported paint document version")
)
