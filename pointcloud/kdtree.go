package pointcloud

import (
	"container/heap"
	"sort"

	"github.com/golang/geo/r3"
)

// Neighbor is one result of a k-NN query: the index into the tree's
// reference point array, and the squared Euclidean distance to the query.
type Neighbor struct {
	Index  int
	DistSq float64
}

// KDTree is an immutable, axis-alternating 3-D k-d tree over a reference
// point array (spec.md §4.1). It is built once and answers any number of
// read-only, re-entrant KNN queries; the tree built inside a single
// operation (e.g. SelectInRange) is scoped to that call and dropped
// afterward, per spec.md §5's shared-resource policy.
type KDTree struct {
	points []r3.Vector
	root   *kdNode
}

type kdNode struct {
	index       int
	axis        int
	left, right *kdNode
}

// NewKDTree builds a k-d tree over points using median-of-splits
// construction, alternating the split axis x/y/z with tree depth. An empty
// points slice yields a tree whose queries all report zero results.
func NewKDTree(points []r3.Vector) *KDTree {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t := &KDTree{points: points}
	t.root = t.build(idx, 0)
	return t
}

func (t *KDTree) build(idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(idx, func(a, b int) bool {
		return coord(t.points[idx[a]], axis) < coord(t.points[idx[b]], axis)
	})
	mid := len(idx) / 2
	node := &kdNode{index: idx[mid], axis: axis}
	node.left = t.build(idx[:mid], depth+1)
	node.right = t.build(idx[mid+1:], depth+1)
	return node
}

func coord(p r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func distSq(a, b r3.Vector) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// neighborHeap is a bounded max-heap over Neighbor keyed by DistSq (ties:
// the higher Index ranks as worse), used to track the current k best
// candidates during tree descent (best-bin-first pruning: the root of the
// heap is the worst of the current best k, so a subtree can be pruned once
// its hyperplane distance exceeds it).
type neighborHeap []Neighbor

func (h neighborHeap) Len() int { return len(h) }
func (h neighborHeap) Less(i, j int) bool {
	if h[i].DistSq != h[j].DistSq {
		return h[i].DistSq > h[j].DistSq
	}
	return h[i].Index > h[j].Index
}
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNN returns the k reference points closest to q, sorted ascending by
// squared distance with ties broken by ascending reference index. If
// k > M (the number of reference points), all M points are returned.
func (t *KDTree) KNN(q r3.Vector, k int) []Neighbor {
	if k <= 0 || t.root == nil {
		return nil
	}
	h := &neighborHeap{}
	heap.Init(h)
	t.search(t.root, q, k, h)

	out := make([]Neighbor, len(*h))
	copy(out, *h)
	sortNeighbors(out)
	return out
}

// NearestNeighbor returns the single result of KNN(q, 1); returns ok=false
// for an empty tree.
func (t *KDTree) NearestNeighbor(q r3.Vector) (Neighbor, bool) {
	res := t.KNN(q, 1)
	if len(res) == 0 {
		return Neighbor{}, false
	}
	return res[0], true
}

func (t *KDTree) search(node *kdNode, q r3.Vector, k int, h *neighborHeap) {
	if node == nil {
		return
	}
	p := t.points[node.index]
	d := distSq(p, q)

	if h.Len() < k {
		heap.Push(h, Neighbor{Index: node.index, DistSq: d})
	} else if d < (*h)[0].DistSq || (d == (*h)[0].DistSq && node.index < (*h)[0].Index) {
		heap.Pop(h)
		heap.Push(h, Neighbor{Index: node.index, DistSq: d})
	}

	diff := coord(q, node.axis) - coord(p, node.axis)
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}
	t.search(near, q, k, h)

	// Best-bin-first pruning: only descend into the far side if the
	// splitting hyperplane is no farther than our current worst kept
	// candidate (equal distance still descends, so a lower-index tie on the
	// far side can win), or we don't have k candidates yet.
	if h.Len() < k || diff*diff <= (*h)[0].DistSq {
		t.search(far, q, k, h)
	}
}

// sortNeighbors sorts ascending by DistSq, ties broken by ascending Index.
func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].DistSq != ns[j].DistSq {
			return ns[i].DistSq < ns[j].DistSq
		}
		return ns[i].Index < ns[j].Index
	})
}
