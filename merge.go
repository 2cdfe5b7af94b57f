package tdigest

import "math"

/*
The merge engine turns an arbitrarily long sorted centroid sequence into
one bounded near maxSize. It walks the sequence once, growing an open
cluster while the quantile span the cluster would occupy stays inside the
budget of the scale function, and emitting the cluster when the next
candidate would overflow it.

The budget is expressed in inverse form: rather than testing
k(q1) - k(q0) <= 1 directly, the scan precomputes the q ceiling of the
k-th cluster via kToQ and compares cumulative weight against it, which is
algebraically the same test without transcendental calls in the loop.
*/

// kToQ maps a cluster index k in [0, d] to the quantile ceiling of that
// cluster. The quadratic spline is flat near 0 and 1 and steep around the
// middle, so clusters stay small at the tails and wide near the median.
func kToQ(k, d float64) float64 {
	kDivD := k / d
	if kDivD >= 0.5 {
		base := 1 - kDivD
		return 1 - 2*base*base
	}
	return 2 * kDivD * kDivD
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// clusterCentroids compresses a sorted centroid sequence of total weight
// totalWeight down to O(maxSize) clusters. Total weight is conserved
// exactly; the result stays sorted.
func clusterCentroids(sorted []Centroid, totalWeight float64, maxSize int) []Centroid {
	if len(sorted) == 0 {
		return nil
	}

	compressed := make([]Centroid, 0, maxSize)

	kLimit := 1.0
	qLimitTimesCount := kToQ(kLimit, float64(maxSize)) * totalWeight
	kLimit++

	curr := sorted[0]
	weightSoFar := curr.weight
	var sumsToMerge, weightsToMerge float64

	for _, next := range sorted[1:] {
		weightSoFar += next.weight
		if weightSoFar <= qLimitTimesCount {
			sumsToMerge += next.mean * next.weight
			weightsToMerge += next.weight
		} else {
			curr.add(sumsToMerge, weightsToMerge)
			sumsToMerge, weightsToMerge = 0, 0
			compressed = append(compressed, curr)
			qLimitTimesCount = kToQ(kLimit, float64(maxSize)) * totalWeight
			kLimit++
			curr = next
		}
	}
	curr.add(sumsToMerge, weightsToMerge)
	compressed = append(compressed, curr)

	// Folding a run into its head can nudge a mean past its neighbor;
	// restore strict order.
	sortCentroids(compressed)
	return compressed
}

// mergeSortedRuns merges two mean-sorted centroid slices into one, taking
// from a first on ties so earlier-built centroids keep precedence.
func mergeSortedRuns(a, b []Centroid) []Centroid {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]Centroid, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].LessThan(a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// MergeDigests combines any number of digests into a new one. The result
// takes its size bound from the first digest; its count is the exact sum
// of the inputs' counts and its extrema the extremes over all non-empty
// inputs. The inputs are flushed but otherwise left intact.
//
// Identical inputs produce identical output: ties between equal means are
// broken by argument order.
func MergeDigests(digests ...*TDigest) *TDigest {
	if len(digests) == 0 {
		return NewDefault()
	}

	var (
		all   []Centroid
		sum   float64
		count float64
		min   = math.Inf(1)
		max   = math.Inf(-1)
	)
	for _, d := range digests {
		d.Compress()
		if d.count == 0 {
			continue
		}
		sum += d.sum
		count += d.count
		min = math.Min(min, d.min)
		max = math.Max(max, d.max)
		all = append(all, d.centroids...)
	}

	result := &TDigest{
		maxSize: digests[0].maxSize,
		buf:     newBuffer(digests[0].maxSize * bufferFactor),
		min:     math.NaN(),
		max:     math.NaN(),
	}
	if count == 0 {
		return result
	}

	sortCentroids(all)
	result.centroids = clusterCentroids(all, count, result.maxSize)
	result.sum = sum
	result.count = count
	result.min = min
	result.max = max
	return result
}

// Merge folds the other digests into t in place. Merging an empty digest
// is a no-op up to floating-point rounding.
func (t *TDigest) Merge(others ...*TDigest) {
	merged := MergeDigests(append([]*TDigest{t}, others...)...)
	*t = *merged
}
