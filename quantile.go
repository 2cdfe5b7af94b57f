package tdigest

import (
	"math"

	"github.com/pkg/errors"
)

/*
Quantile and Rank interpolate over cumulative-weight midpoints: centroid i
is treated as sitting at rank (weight of everything before i) + half its
own weight. Between adjacent midpoints the value is linear in rank. Past
the outermost midpoints the interpolation targets the exact tracked
extrema, so Quantile(0) and Quantile(1) return min and max, not a centroid
mean.
*/

// Quantile returns an estimate of the value at or below which a fraction
// q of the observations fall. q must lie in [0, 1]; querying an empty
// digest returns ErrEmptyDigest.
func (t *TDigest) Quantile(q float64) (float64, error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, errors.Wrapf(ErrInvalidInput, "quantile %v outside [0, 1]", q)
	}
	t.Compress()
	if t.count == 0 {
		return 0, errors.Wrap(ErrEmptyDigest, "quantile")
	}

	// The extrema are tracked exactly; the boundary quantiles are not
	// estimates.
	if q == 0 {
		return t.min, nil
	}
	if q == 1 {
		return t.max, nil
	}

	cs := t.centroids
	index := q * t.count

	// Below the first midpoint: extrapolate toward the exact minimum.
	half := cs[0].weight / 2
	if index <= half {
		return clamp(t.min+index/half*(cs[0].mean-t.min), t.min, t.max), nil
	}

	weightSoFar := half
	for i := 0; i+1 < len(cs); i++ {
		span := (cs[i].weight + cs[i+1].weight) / 2
		if index <= weightSoFar+span {
			z := (index - weightSoFar) / span
			return clamp(cs[i].mean+z*(cs[i+1].mean-cs[i].mean), t.min, t.max), nil
		}
		weightSoFar += span
	}

	// Past the last midpoint: extrapolate toward the exact maximum.
	last := cs[len(cs)-1]
	z := (index - weightSoFar) / (last.weight / 2)
	return clamp(last.mean+z*(t.max-last.mean), t.min, t.max), nil
}

// Rank returns the fraction of observations at or below value, the
// inverse of Quantile. Values at or beyond the tracked extrema map to 0
// and 1. Querying an empty digest returns ErrEmptyDigest.
func (t *TDigest) Rank(value float64) (float64, error) {
	if math.IsNaN(value) {
		return 0, errors.Wrap(ErrInvalidInput, "rank of NaN")
	}
	t.Compress()
	if t.count == 0 {
		return 0, errors.Wrap(ErrEmptyDigest, "rank")
	}

	if value <= t.min {
		return 0, nil
	}
	if value >= t.max {
		return 1, nil
	}

	cs := t.centroids

	// Before the first mean: interpolate inside the min..mean(0) edge.
	if value < cs[0].mean {
		z := (value - t.min) / (cs[0].mean - t.min)
		return z * (cs[0].weight / 2) / t.count, nil
	}

	weightSoFar := cs[0].weight / 2
	for i := 0; i+1 < len(cs); i++ {
		if value < cs[i+1].mean {
			span := (cs[i].weight + cs[i+1].weight) / 2
			z := (value - cs[i].mean) / (cs[i+1].mean - cs[i].mean)
			return (weightSoFar + z*span) / t.count, nil
		}
		weightSoFar += (cs[i].weight + cs[i+1].weight) / 2
	}

	// Past the last mean but below the maximum.
	last := cs[len(cs)-1]
	z := (value - last.mean) / (t.max - last.mean)
	return (weightSoFar + z*last.weight/2) / t.count, nil
}
