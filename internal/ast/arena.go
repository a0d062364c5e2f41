package ast

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind. Indices are 1-based so that 0 stays free
// for "no node"; a tree never removes nodes, so indices are stable.
type Arena[T any] struct {
	data []T
}

// NewArena preallocates capHint slots.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its index (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return a.Len()
}

// Get returns the node at index, nil for 0 or an index past the end.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Len is the number of nodes, which is also the largest valid index.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast: arena overflow: %w", err))
	}
	return n
}

// All yields index and node in allocation order.
func (a *Arena[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for i := range a.data {
			if !yield(uint32(i+1), &a.data[i]) { //nolint:gosec // bounded by Len
				return
			}
		}
	}
}
