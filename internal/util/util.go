package util

import (
	"sort"
)

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	var keys []string
	var idx int

	keys = make([]string, len(m))
	idx = 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Strings(keys)

	return keys
}

// Queue is a FIFO queue of items implemented over a slice. The zero value is
// an empty queue ready to use.
type Queue[E any] struct {
	of []E
}

// Push adds the given item to the back of the queue.
func (q *Queue[E]) Push(item E) {
	q.of = append(q.of, item)
}

// Pop removes the item at the front of the queue and returns it. Panics if
// the queue is empty.
func (q *Queue[E]) Pop() E {
	if len(q.of) == 0 {
		panic("pop of empty queue")
	}

	item := q.of[0]
	q.of = q.of[1:]
	return item
}

// Len returns the number of items in the queue.
func (q Queue[E]) Len() int {
	return len(q.of)
}
