// Package pingpong provides the two-slot buffer pair behind every feedback
// simulation: each step reads one half and writes the other, then the roles swap.
package pingpong

// Pair holds two buffers and the index of the one most recently written.
// The zero value is not usable; construct with New.
type Pair[T any] struct {
	bufs    [2]T
	current int
}

// New creates a pair whose first buffer (index 0) holds the initial state.
func New[T any](initial, spare T) *Pair[T] {
	return &Pair[T]{bufs: [2]T{initial, spare}}
}

// CurrentIndex returns 0 or 1, the buffer most recently completed.
func (p *Pair[T]) CurrentIndex() int {
	return p.current
}

// Advance flips the current index and returns it as the target to write into.
// It is the only mutator of the index and must be called exactly once per step,
// before the write. The read buffer is then 1 - target.
func (p *Pair[T]) Advance() int {
	p.current = 1 - p.current
	return p.current
}

// Current returns the most recently written buffer.
func (p *Pair[T]) Current() T {
	return p.bufs[p.current]
}

// At returns the buffer at index i (0 or 1).
func (p *Pair[T]) At(i int) T {
	return p.bufs[i&1]
}

// Step advances once and hands the consistent previous state and the target
// to fn. fn must only write to write and only read from read.
func (p *Pair[T]) Step(fn func(read, write T)) {
	target := p.Advance()
	fn(p.bufs[1-target], p.bufs[target])
}
