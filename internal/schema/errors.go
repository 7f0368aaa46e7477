package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownSource is matched by every *UnknownSourceError.
var ErrUnknownSource = errors.New("unknown source type")

// UnknownSourceError is returned when no schema is registered for a source.
type UnknownSourceError struct {
	Source Source
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source type: %s", e.Source)
}

// Is lets errors.Is(err, ErrUnknownSource) match.
func (e *UnknownSourceError) Is(target error) bool {
	return target == ErrUnknownSource
}
