package tdigest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPushInvalid(t *testing.T) {
	buf := newBuffer(4)
	if err := buf.push(3, 0); err == nil {
		t.Error("expected error, got nil")
	}
	if err := buf.push(3, -2); err == nil {
		t.Error("expected error, got nil")
	}
	if val := buf.size(); val != 0 {
		t.Error("expected 0, got", val)
	}
}

func TestBufferDrainSortsAndCoalesces(t *testing.T) {
	assert := assert.New(t)

	buf := newBuffer(8)
	assert.NoError(buf.push(5, 9))
	assert.NoError(buf.push(2, 3))
	assert.NoError(buf.push(-1, 7))
	assert.NoError(buf.push(2, 1))

	got := buf.drain()
	expected := []Centroid{
		{mean: -1, weight: 7},
		{mean: 2, weight: 4},
		{mean: 5, weight: 9},
	}
	assert.Equal(expected, got)
	assert.Equal(0, buf.size())
}

func TestBufferIsFull(t *testing.T) {
	buf := newBuffer(2)
	buf.push(1, 1)
	if buf.isFull() {
		t.Error("expected not full")
	}
	buf.push(2, 1)
	if !buf.isFull() {
		t.Error("expected full")
	}
	buf.drain()
	if buf.isFull() {
		t.Error("expected empty after drain")
	}
}
