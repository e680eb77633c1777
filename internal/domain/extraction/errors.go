package extraction

import "errors"

// ErrClassification wraps any failure returned by a Classifier.
var ErrClassification = errors.New("clause classification failed")
