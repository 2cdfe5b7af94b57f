// Package tdigest implements a mergeable, bounded-memory summary of a
// stream of float64 observations supporting approximate quantile and rank
// queries. Accuracy is relative: finest at the tails of the distribution,
// coarsest around the median, governed by the scale function in merge.go.
package tdigest

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

const defaultMaxSize = 100

// TDigest is an ordered sequence of centroids plus summary statistics.
// It is a self-contained value: independent digests never coordinate, and
// the intended parallel pattern is one digest per shard followed by a
// single MergeDigests call.
//
// A TDigest is not safe for concurrent mutation.
type TDigest struct {
	centroids []Centroid
	buf       *buffer
	maxSize   int

	sum   float64
	count float64
	min   float64
	max   float64
}

// New returns an empty digest that compresses toward maxSize centroids.
func New(maxSize int) (*TDigest, error) {
	if maxSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "max size %d must be > 0", maxSize)
	}
	return &TDigest{
		maxSize: maxSize,
		buf:     newBuffer(maxSize * bufferFactor),
		min:     math.NaN(),
		max:     math.NaN(),
	}, nil
}

// NewDefault returns an empty digest with a size bound of 100, a good
// general-purpose trade-off between memory and accuracy.
func NewDefault() *TDigest {
	t, _ := New(defaultMaxSize)
	return t
}

// FromCentroids builds a digest directly from caller-supplied state.
//
// This is a trusted entry point: when len(centroids) <= maxSize the fields
// are taken as given, with no re-validation of sortedness or weight
// conservation. Feeding it inconsistent state yields silently wrong query
// results. Untrusted input belongs in FromCentroidsChecked.
//
// When len(centroids) > maxSize the constructor does not fail; it
// self-heals by running the merge engine over the oversized list against a
// fresh default-sized digest, so the returned digest is always near its
// bound.
func FromCentroids(centroids []Centroid, maxSize int, sum, count, max, min float64) *TDigest {
	if len(centroids) <= maxSize {
		t := &TDigest{
			centroids: centroids,
			maxSize:   maxSize,
			buf:       newBuffer(maxSize * bufferFactor),
			sum:       sum,
			count:     count,
			min:       min,
			max:       max,
		}
		if t.count == 0 {
			t.min = math.NaN()
			t.max = math.NaN()
		}
		return t
	}
	oversized := &TDigest{
		centroids: centroids,
		maxSize:   len(centroids),
		buf:       newBuffer(len(centroids)),
		sum:       sum,
		count:     count,
		min:       min,
		max:       max,
	}
	return MergeDigests(NewDefault(), oversized)
}

// FromCentroidsChecked is the validating counterpart of FromCentroids for
// input that crosses a trust boundary. It verifies finiteness, positive
// weights, ascending means, weight conservation and min/max bracketing
// before accepting the state.
func FromCentroidsChecked(centroids []Centroid, maxSize int, sum, count, max, min float64) (*TDigest, error) {
	if maxSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "max size %d must be > 0", maxSize)
	}
	if count == 0 {
		if len(centroids) != 0 {
			return nil, errors.Wrap(ErrInvalidInput, "zero count with non-empty centroid list")
		}
		return FromCentroids(nil, maxSize, sum, 0, math.NaN(), math.NaN()), nil
	}
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return nil, errors.Wrapf(ErrInvalidInput, "bad extrema [%v, %v]", min, max)
	}
	weight := 0.0
	for i, c := range centroids {
		if math.IsNaN(c.mean) || math.IsInf(c.mean, 0) {
			return nil, errors.Wrapf(ErrInvalidInput, "centroid %d has non-finite mean", i)
		}
		if c.weight <= 0 || math.IsInf(c.weight, 0) || math.IsNaN(c.weight) {
			return nil, errors.Wrapf(ErrInvalidInput, "centroid %d has weight %v", i, c.weight)
		}
		if i > 0 && centroids[i].LessThan(centroids[i-1]) {
			return nil, errors.Wrapf(ErrInvalidInput, "centroids out of order at %d", i)
		}
		if c.mean < min || c.mean > max {
			return nil, errors.Wrapf(ErrInvalidInput, "centroid %d outside [%v, %v]", i, min, max)
		}
		weight += c.weight
	}
	if math.Abs(weight-count) > 1e-9*math.Max(weight, count) {
		return nil, errors.Wrapf(ErrInvalidInput, "count %v does not match total weight %v", count, weight)
	}
	return FromCentroids(centroids, maxSize, sum, count, max, min), nil
}

// Add inserts one unit-weight observation.
func (t *TDigest) Add(value float64) error {
	return t.AddWeighted(value, 1)
}

// AddWeighted inserts one weighted observation. The value must be finite
// and the weight positive.
func (t *TDigest) AddWeighted(value, weight float64) error {
	if err := t.buf.push(value, weight); err != nil {
		return err
	}
	t.sum += value * weight
	t.count += weight
	if math.IsNaN(t.min) || value < t.min {
		t.min = value
	}
	if math.IsNaN(t.max) || value > t.max {
		t.max = value
	}
	if t.buf.isFull() {
		t.Compress()
	}
	return nil
}

// Compress flushes any buffered observations through the merge engine,
// restoring the size bound. Queries call this implicitly; calling it
// explicitly is only useful to bound memory between query-free stretches.
func (t *TDigest) Compress() {
	if t.buf.size() == 0 {
		return
	}
	merged := mergeSortedRuns(t.centroids, t.buf.drain())
	t.centroids = clusterCentroids(merged, t.count, t.maxSize)
}

// Mean reports the average of all observations, or ErrEmptyDigest when
// none have been recorded.
func (t *TDigest) Mean() (float64, error) {
	if t.count == 0 {
		return 0, errors.Wrap(ErrEmptyDigest, "mean")
	}
	return t.sum / t.count, nil
}

// Sum reports the weighted sum of all observations.
func (t *TDigest) Sum() float64 {
	return t.sum
}

// Count reports the total weight of all observations.
func (t *TDigest) Count() float64 {
	return t.count
}

// Min reports the exact smallest observation, or ErrEmptyDigest.
func (t *TDigest) Min() (float64, error) {
	if t.count == 0 {
		return 0, errors.Wrap(ErrEmptyDigest, "min")
	}
	return t.min, nil
}

// Max reports the exact largest observation, or ErrEmptyDigest.
func (t *TDigest) Max() (float64, error) {
	if t.count == 0 {
		return 0, errors.Wrap(ErrEmptyDigest, "max")
	}
	return t.max, nil
}

// IsEmpty ...
func (t *TDigest) IsEmpty() bool {
	return t.count == 0
}

// MaxSize ...
func (t *TDigest) MaxSize() int {
	return t.maxSize
}

// Centroids returns the compressed centroid list, ascending by mean. The
// caller must not modify the returned slice.
func (t *TDigest) Centroids() []Centroid {
	t.Compress()
	return t.centroids
}

// sortCentroids stable-sorts by mean so equal means keep their original
// appearance order, which keeps merge output reproducible.
func sortCentroids(cs []Centroid) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].LessThan(cs[j]) })
}
