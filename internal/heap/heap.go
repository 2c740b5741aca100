// Package heap is the ordered merge engine behind multiplication, division
// and substitution.
//
// The heap is keyed by packed monomials and always yields the greatest
// monomial first. Candidates are small integers indexing a slab owned by the
// caller; the heap only stores, per candidate, the link to the next candidate
// sharing the same heap node. Candidates whose monomial equals a node met on
// the insertion path are chained onto that node instead of creating a new
// one, and Pop hands the whole chain back.
//
// Exponent buffers come from a fixed pool sized to the candidate slab, so a
// merge allocates nothing per term.
//
// The code mirrors container/heap with concrete types, like gnark's IntHeap.
package heap

import "github.com/jonathanmweiss/go-mpoly/monomial"

// End terminates a candidate chain.
const End = -1

type node struct {
	exp  []uint64
	head int32
}

type Heap struct {
	layout *monomial.Layout
	words  int

	// nodes[0] is unused so that parent(i) = i/2.
	nodes []node
	next  []int32

	pool    []uint64
	free    [][]uint64
	lastLoc int

	peak int
}

// New returns a heap able to hold up to slots live candidates.
func New(l *monomial.Layout, slots int) *Heap {
	h := &Heap{
		layout: l,
		words:  l.Words,
		nodes:  make([]node, 1, slots+1),
		next:   make([]int32, slots),
		pool:   make([]uint64, (slots+1)*l.Words),
		free:   make([][]uint64, 0, slots+1),
	}

	for i := slots; i >= 0; i-- {
		h.free = append(h.free, h.pool[i*h.words:(i+1)*h.words:(i+1)*h.words])
	}

	return h
}

// Len is the number of heap nodes, not counting chained candidates.
func (h *Heap) Len() int {
	return len(h.nodes) - 1
}

func (h *Heap) Empty() bool {
	return len(h.nodes) == 1
}

// Peak is the largest Len observed since New.
func (h *Heap) Peak() int {
	return h.peak
}

// Scratch exposes the buffer the next Insert will consume. Callers write the
// candidate's monomial into it and then call Insert.
func (h *Heap) Scratch() []uint64 {
	return h.free[len(h.free)-1]
}

// Top returns the greatest monomial. The slice is only valid until the next
// Pop.
func (h *Heap) Top() []uint64 {
	return h.nodes[1].exp
}

// Next follows a chain returned by Pop.
func (h *Heap) Next(x int32) int32 {
	return h.next[x]
}

// Insert adds candidate x with the monomial currently held in Scratch.
func (h *Heap) Insert(x int32) {
	exp := h.Scratch()
	l := h.layout
	n := len(h.nodes)
	i := n

	if i != 1 && l.Equal(exp, h.nodes[1].exp) {
		h.chain(1, x)
		return
	}

	if h.lastLoc < n && h.lastLoc >= 1 && l.Equal(exp, h.nodes[h.lastLoc].exp) {
		h.chain(h.lastLoc, x)
		return
	}

	for j := i / 2; j >= 1; j = i / 2 {
		if l.Equal(exp, h.nodes[j].exp) {
			h.chain(j, x)
			h.lastLoc = j
			return
		}

		if !l.Greater(exp, h.nodes[j].exp) {
			break
		}

		i = j
	}

	h.free = h.free[:len(h.free)-1]
	h.next[x] = End
	h.nodes = append(h.nodes, node{})

	for k := n; k > i; k /= 2 {
		h.nodes[k] = h.nodes[k/2]
	}

	h.nodes[i] = node{exp: exp, head: x}
	h.peak = max(h.peak, h.Len())
}

func (h *Heap) chain(loc int, x int32) {
	h.next[x] = h.nodes[loc].head
	h.nodes[loc].head = x
}

// Pop removes the greatest node and returns the head of its candidate chain.
// The node's exponent buffer goes back to the pool, so callers copy Top
// first when they need it afterwards.
func (h *Heap) Pop() int32 {
	l := h.layout
	top := h.nodes[1]
	s := len(h.nodes) - 1

	i, j := 1, 2
	for j < s {
		if !l.Greater(h.nodes[j].exp, h.nodes[j+1].exp) {
			j++
		}

		h.nodes[i] = h.nodes[j]
		i, j = j, 2*j
	}

	last := h.nodes[s]
	for j = i / 2; i > 1 && l.Greater(last.exp, h.nodes[j].exp); j = i / 2 {
		h.nodes[i] = h.nodes[j]
		i = j
	}

	h.nodes[i] = last
	h.nodes = h.nodes[:s]
	h.free = append(h.free, top.exp)

	return top.head
}
