package payload

import "errors"

var (
	// ErrIncompatibleSource is returned by SetSources when a candidate
	// source's type is outside the handler's supported set.
	ErrIncompatibleSource = errors.New("source type is not supported by this handler")

	// ErrSourceSetup is returned by SetSources when an attached source is
	// already initialized. Tear down the sources first, then retry.
	ErrSourceSetup = errors.New("cannot change sources while a source is initialized")

	// ErrAlreadyPublished is returned when a handler name is published twice.
	ErrAlreadyPublished = errors.New("handler is already published")

	// ErrUnknownHandler is returned when no handler with the given name has
	// been published.
	ErrUnknownHandler = errors.New("unknown handler")
)
