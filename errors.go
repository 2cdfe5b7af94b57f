package tdigest

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when a caller supplies a non-positive
	// weight, a non-finite value, or an out-of-range quantile.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDigest is returned by queries that have no defined answer
	// on a digest holding no observations.
	ErrEmptyDigest = errors.New("empty digest")
)
