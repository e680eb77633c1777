package archetype

import "errors"

// ErrUnknownArchetype is returned when parsing an unrecognised archetype.
var ErrUnknownArchetype = errors.New("unknown archetype")
