package classifier

import "errors"

// ErrEmptyResponse is returned when the model answers with no choices.
var ErrEmptyResponse = errors.New("classifier returned no choices")
