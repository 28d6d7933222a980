package cpu

import (
	"iter"
)

// Stack is a fixed capacity stack.
type Stack[T any] struct {
	Sp   int // Index of the top entry, -1 when empty.
	Data []T // Entry storage; its length is the capacity.
}

// MakeStack returns an empty stack with a fixed capacity.
func MakeStack[T any](capacity int) Stack[T] {
	return Stack[T]{
		Sp:   -1,
		Data: make([]T, capacity),
	}
}

// Push adds a value. A full stack is not modified.
func (s *Stack[T]) Push(value T) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.Sp++
	s.Data[s.Sp] = value
	return
}

// Pop removes the top value. An empty stack is not modified.
func (s *Stack[T]) Pop() (value T, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	var zero T
	s.Data[s.Sp] = zero
	s.Sp--
	return
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp], true
}

func (s *Stack[T]) Empty() bool {
	return s.Sp < 0
}

func (s *Stack[T]) Full() bool {
	return s.Sp+1 >= len(s.Data)
}

// Len returns the number of entries.
func (s *Stack[T]) Len() int {
	return s.Sp + 1
}

// Cap returns the capacity.
func (s *Stack[T]) Cap() int {
	return len(s.Data)
}

func (s *Stack[T]) Reset() {
	clear(s.Data)
	s.Sp = -1
}

// All iterates from the bottom of the stack to the top.
func (s *Stack[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for n := 0; n <= s.Sp; n++ {
			if !yield(n, s.Data[n]) {
				return
			}
		}
	}
}
