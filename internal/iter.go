package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Concat2 joins key/value iterators into one, in order.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// SortedByKey collects a key/value iterator and replays it in key order.
// For duplicate keys the last value wins.
func SortedByKey[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		values := maps.Collect(seq)
		for _, key := range slices.Sorted(maps.Keys(values)) {
			if !yield(key, values[key]) {
				return
			}
		}
	}
}
