package tdigest

import (
	"math"

	"github.com/pkg/errors"
)

// Centroid is a weighted point estimate representing one cluster of
// observations.
type Centroid struct {
	mean   float64
	weight float64
}

// NewCentroid constructs a centroid. The weight must be positive and both
// fields finite.
func NewCentroid(mean, weight float64) (Centroid, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return Centroid{}, errors.Wrapf(ErrInvalidInput, "non-finite mean %v", mean)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return Centroid{}, errors.Wrapf(ErrInvalidInput, "weight %v must be > 0", weight)
	}
	return Centroid{mean: mean, weight: weight}, nil
}

// Mean ...
func (c Centroid) Mean() float64 {
	return c.mean
}

// Weight ...
func (c Centroid) Weight() float64 {
	return c.weight
}

// LessThan orders centroids by mean alone; weight never participates.
func (c Centroid) LessThan(o Centroid) bool {
	return c.mean < o.mean
}

// Equals reports strict equality: both mean and weight must match.
// Note the asymmetry with LessThan, whose order is mean-only.
func (c Centroid) Equals(o Centroid) bool {
	return c.mean == o.mean && c.weight == o.weight
}

// Update absorbs one more weighted observation into the centroid and
// returns the new mean and weight. The contract is
//
//	newWeight = weight + w
//	newMean   = (mean*weight + value) / newWeight
//
// with the incoming value entering the numerator unscaled by its own
// weight. This is the documented behavior relied on downstream; it is not
// the classical two-sample weighted average.
func (c *Centroid) Update(value, weight float64) (float64, float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "non-finite value %v", value)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "weight %v must be > 0", weight)
	}
	mean, w := c.mean, c.weight
	c.weight = w + weight
	c.mean = (mean*w + value) / c.weight
	return c.mean, c.weight, nil
}

// add folds an accumulated (sum, weight) run into the centroid as a true
// weighted mean. Used by the merge engine on already-validated clusters.
func (c *Centroid) add(sum, weight float64) {
	if weight == 0 {
		return
	}
	sum += c.mean * c.weight
	c.weight += weight
	c.mean = sum / c.weight
}
