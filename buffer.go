package tdigest

import (
	"sort"

	"github.com/pkg/errors"
)

// bufferFactor sizes the insertion buffer relative to the digest's bound.
const bufferFactor = 8

// buffer accumulates raw observations as unit clusters so that point
// insertion amortizes to one compression per batch instead of one per
// point.
type buffer struct {
	vec     []Centroid
	maxSize int
}

func newBuffer(maxSize int) *buffer {
	return &buffer{
		maxSize: maxSize,
		vec:     make([]Centroid, 0, maxSize),
	}
}

func (b *buffer) push(value, weight float64) error {
	c, err := NewCentroid(value, weight)
	if err != nil {
		return errors.Wrap(err, "push")
	}
	b.vec = append(b.vec, c)
	return nil
}

// drain returns the buffered centroids sorted ascending by mean, with
// runs of equal means coalesced into a single centroid of combined
// weight, and empties the buffer. The sort is stable so equal means keep
// their arrival order.
func (b *buffer) drain() []Centroid {
	sort.SliceStable(b.vec, func(i, j int) bool { return b.vec[i].LessThan(b.vec[j]) })
	ret := b.vec
	b.vec = make([]Centroid, 0, b.maxSize)

	if len(ret) == 0 {
		return ret
	}
	numEntries := 0
	for i := 1; i < len(ret); i++ {
		if ret[i].mean != ret[numEntries].mean {
			numEntries++
			ret[numEntries] = ret[i]
		} else {
			ret[numEntries].weight += ret[i].weight
		}
	}
	return ret[:numEntries+1]
}

func (b *buffer) size() int {
	return len(b.vec)
}

func (b *buffer) isFull() bool {
	return len(b.vec) >= b.maxSize
}
