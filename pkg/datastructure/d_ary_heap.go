package datastructure

import (
	"errors"
)

var (
	ErrEmptyHeap       = errors.New("heap is empty")
	ErrInvalidDecrease = errors.New("node is not in the heap or the new rank is larger")
)

// PriorityQueueNode. heap entry, pos tracks the slot so DecreaseKey needs no search. -1 once extracted.
type PriorityQueueNode[T comparable] struct {
	rank float64
	item T
	pos  int
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item, pos: -1}
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

// MinHeap. d-ary min heap keyed by rank, used as the Dijkstra frontier.
type MinHeap[T comparable] struct {
	nodes []*PriorityQueueNode[T]
	d     int
}

func NewBinaryHeap[T comparable]() *MinHeap[T] {
	return newDAryHeap[T](2)
}

// NewFourAryHeap. shallower than binary, fewer swaps on DecreaseKey which dominates on dense indoor graphs.
func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return newDAryHeap[T](4)
}

func newDAryHeap[T comparable](d int) *MinHeap[T] {
	return &MinHeap[T]{
		nodes: make([]*PriorityQueueNode[T], 0),
		d:     d,
	}
}

// Preallocate. capacity for n nodes, the whole graph at most.
func (h *MinHeap[T]) Preallocate(n int) {
	h.nodes = make([]*PriorityQueueNode[T], 0, n)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.nodes) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.nodes)
}

func (h *MinHeap[T]) swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].pos = i
	h.nodes[j].pos = j
}

func (h *MinHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / h.d
		if h.nodes[i].rank >= h.nodes[parent].rank {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *MinHeap[T]) siftDown(i int) {
	n := len(h.nodes)
	for {
		first := i*h.d + 1
		if first >= n {
			return
		}
		last := first + h.d
		if last > n {
			last = n
		}

		smallest := first
		for c := first + 1; c < last; c++ {
			if h.nodes[c].rank < h.nodes[smallest].rank {
				smallest = c
			}
		}
		if h.nodes[smallest].rank >= h.nodes[i].rank {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *MinHeap[T]) Insert(node *PriorityQueueNode[T]) {
	node.pos = len(h.nodes)
	h.nodes = append(h.nodes, node)
	h.siftUp(node.pos)
}

func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	root := h.nodes[0]
	last := len(h.nodes) - 1
	h.swap(0, last)
	h.nodes[last] = nil
	h.nodes = h.nodes[:last]
	root.pos = -1
	if last > 0 {
		h.siftDown(0)
	}
	return root, nil
}

// DecreaseKey. lower the rank of a node still in the heap.
func (h *MinHeap[T]) DecreaseKey(node *PriorityQueueNode[T], rank float64) error {
	if node.pos < 0 || node.pos >= len(h.nodes) || h.nodes[node.pos] != node || rank > node.rank {
		return ErrInvalidDecrease
	}
	node.rank = rank
	h.siftUp(node.pos)
	return nil
}
