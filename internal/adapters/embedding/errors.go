package embedding

import "errors"

var (
	// ErrUnknownWord is returned for words without a vector.
	ErrUnknownWord = errors.New("unknown word")

	// ErrNoVectors is returned when a vector file holds no usable rows.
	ErrNoVectors = errors.New("no vectors loaded")

	// ErrEmptyResponse is returned when the embeddings API answers without data.
	ErrEmptyResponse = errors.New("embedding response has no data")
)
