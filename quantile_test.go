package tdigest

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exact reference statistics computed on the raw data, for validating the
// digest's approximations.

func quantileOnSorted(q float64, data []float64) float64 {
	n := float64(len(data))
	index := q * n
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}
	return data[int(math.Floor(index))]
}

func cdfOnSorted(x float64, data []float64) float64 {
	n1, n2 := 0.0, 0.0
	for _, v := range data {
		if v < x {
			n1++
		}
		if v == x {
			n2++
		}
	}
	return (n1 + n2/2.0) / float64(len(data))
}

func TestQuantileInvalidInput(t *testing.T) {
	assert := assert.New(t)

	td := NewDefault()
	assert.NoError(td.Add(1))

	_, err := td.Quantile(-0.1)
	assert.Error(err)
	_, err = td.Quantile(1.1)
	assert.Error(err)
	_, err = td.Quantile(math.NaN())
	assert.Error(err)
	_, err = td.Rank(math.NaN())
	assert.Error(err)
}

func TestQuantileExactExtremes(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(3))
	td := NewDefault()
	for i := 0; i < 10000; i++ {
		assert.NoError(td.Add(rng.NormFloat64() * 100))
	}

	min, err := td.Min()
	assert.NoError(err)
	max, err := td.Max()
	assert.NoError(err)

	q0, err := td.Quantile(0)
	assert.NoError(err)
	q1, err := td.Quantile(1)
	assert.NoError(err)
	assert.Equal(min, q0)
	assert.Equal(max, q1)
}

func TestQuantileMonotone(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(5))
	td, err := New(50)
	assert.NoError(err)
	for i := 0; i < 20000; i++ {
		assert.NoError(td.Add(rng.ExpFloat64()))
	}

	prev := math.Inf(-1)
	for q := 0.0; q <= 1.0; q += 0.001 {
		v, err := td.Quantile(q)
		assert.NoError(err)
		assert.True(v >= prev, "quantile(%v) = %v < %v", q, v, prev)
		prev = v
	}
}

func TestQuantileAccuracyUniform(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(17))
	data := make([]float64, 50000)
	td := NewDefault()
	for i := range data {
		data[i] = rng.Float64()
		assert.NoError(td.Add(data[i]))
	}
	sort.Float64s(data)

	for _, q := range []float64{0.001, 0.01, 0.1, 0.25, 0.5, 0.75, 0.9, 0.99, 0.999} {
		want := quantileOnSorted(q, data)
		got, err := td.Quantile(q)
		assert.NoError(err)
		assert.InDelta(want, got, 0.02, "q=%v", q)
	}

	// Tail estimates are tighter than the global tolerance.
	for _, q := range []float64{0.001, 0.999} {
		want := quantileOnSorted(q, data)
		got, _ := td.Quantile(q)
		assert.InDelta(want, got, 0.002, "q=%v", q)
	}
}

func TestRankMatchesExactCDF(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(19))
	data := make([]float64, 50000)
	td := NewDefault()
	for i := range data {
		data[i] = rng.NormFloat64()
		assert.NoError(td.Add(data[i]))
	}
	sort.Float64s(data)

	for _, x := range []float64{-3, -2, -1, -0.5, 0, 0.5, 1, 2, 3} {
		want := cdfOnSorted(x, data)
		got, err := td.Rank(x)
		assert.NoError(err)
		assert.InDelta(want, got, 0.02, "x=%v", x)
	}
}

func TestRankAtExtrema(t *testing.T) {
	assert := assert.New(t)

	td := NewDefault()
	for _, v := range sequence(1, 100) {
		assert.NoError(td.Add(v))
	}

	for _, tc := range []struct {
		value float64
		want  float64
	}{
		{0, 0}, {1, 0}, {100, 1}, {250, 1},
	} {
		got, err := td.Rank(tc.value)
		assert.NoError(err)
		assert.Equal(tc.want, got, "value=%v", tc.value)
	}

	mid, err := td.Rank(50.5)
	assert.NoError(err)
	assert.InDelta(0.5, mid, 0.02)
}

func TestRankQuantileRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(23))
	td := NewDefault()
	for i := 0; i < 20000; i++ {
		assert.NoError(td.Add(rng.Float64() * 1000))
	}

	for q := 0.05; q < 1; q += 0.05 {
		v, err := td.Quantile(q)
		assert.NoError(err)
		back, err := td.Rank(v)
		assert.NoError(err)
		assert.InDelta(q, back, 0.02, "q=%v", q)
	}
}

func TestQuantileSingleValue(t *testing.T) {
	assert := assert.New(t)

	td := NewDefault()
	assert.NoError(td.AddWeighted(10, 3))

	for _, q := range []float64{0, 0.25, 0.5, 0.75, 1} {
		v, err := td.Quantile(q)
		assert.NoError(err)
		assert.Equal(10.0, v)
	}

	r, err := td.Rank(10)
	assert.NoError(err)
	assert.Equal(0.0, r) // at the minimum
	r, err = td.Rank(11)
	assert.NoError(err)
	assert.Equal(1.0, r)
}
