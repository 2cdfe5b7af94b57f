package tdigest

import (
	"math"

	"github.com/kelindar/binary"
	"github.com/pkg/errors"
)

// digestSnapshot mirrors the digest's fields one to one for encoding.
// It carries no semantics of its own.
type digestSnapshot struct {
	Means   []float64
	Weights []float64
	MaxSize int
	Sum     float64
	Count   float64
	Max     float64
	Min     float64
}

// MarshalBinary encodes the digest, implementing
// encoding.BinaryMarshaler. Buffered observations are flushed first so
// the encoding always reflects the compressed state.
func (t *TDigest) MarshalBinary() ([]byte, error) {
	t.Compress()
	snap := digestSnapshot{
		Means:   make([]float64, len(t.centroids)),
		Weights: make([]float64, len(t.centroids)),
		MaxSize: t.maxSize,
		Sum:     t.sum,
		Count:   t.count,
		Max:     t.max,
		Min:     t.min,
	}
	for i, c := range t.centroids {
		snap.Means[i] = c.mean
		snap.Weights[i] = c.weight
	}
	return binary.Marshal(&snap)
}

// UnmarshalBinary decodes a digest previously encoded with MarshalBinary,
// implementing encoding.BinaryUnmarshaler. Decoded state crosses a trust
// boundary, so it goes through the validating constructor.
func (t *TDigest) UnmarshalBinary(data []byte) error {
	var snap digestSnapshot
	if err := binary.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(err, "decode digest")
	}
	if len(snap.Means) != len(snap.Weights) {
		return errors.Wrapf(ErrInvalidInput, "mean/weight length mismatch %d != %d",
			len(snap.Means), len(snap.Weights))
	}
	centroids := make([]Centroid, len(snap.Means))
	for i := range snap.Means {
		centroids[i] = Centroid{mean: snap.Means[i], weight: snap.Weights[i]}
	}
	if snap.Count == 0 {
		snap.Min = math.NaN()
		snap.Max = math.NaN()
	}
	decoded, err := FromCentroidsChecked(centroids, snap.MaxSize, snap.Sum, snap.Count, snap.Max, snap.Min)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}
