package synth

import (
	"errors"
	"math/rand"
	"sort"
)

// Weighted samples from a fixed categorical distribution using a cumulative
// weight table.
type Weighted[T any] struct {
	items      []T
	cumulative []float64
	total      float64
}

func NewWeighted[T any](items []T, weights []float64) (*Weighted[T], error) {
	if len(items) == 0 {
		return nil, errors.New("weighted: no items")
	}
	if len(items) != len(weights) {
		return nil, errors.New("weighted: items and weights differ in length")
	}

	w := &Weighted[T]{
		items:      append([]T(nil), items...),
		cumulative: make([]float64, len(weights)),
	}
	for i, weight := range weights {
		if weight < 0 {
			return nil, errors.New("weighted: negative weight")
		}
		w.total += weight
		w.cumulative[i] = w.total
	}
	if w.total <= 0 {
		return nil, errors.New("weighted: weights sum to zero")
	}
	return w, nil
}

func MustWeighted[T any](items []T, weights []float64) *Weighted[T] {
	w, err := NewWeighted(items, weights)
	if err != nil {
		panic(err)
	}
	return w
}

// At maps x in [0, total) onto its category.
func (w *Weighted[T]) At(x float64) T {
	i := sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > x
	})
	if i == len(w.items) {
		i--
	}
	return w.items[i]
}

func (w *Weighted[T]) Pick(r *rand.Rand) T {
	return w.At(r.Float64() * w.total)
}

func (w *Weighted[T]) Total() float64 {
	return w.total
}
