package scene

import (
	"time"

	"github.com/achilleasa/goray/log"
)

// The number of equal-width centroid bins evaluated per axis when scoring
// SAH split candidates. Doubling this trades build time for slightly
// cheaper queries.
const nBins = 16

var builderLogger = log.New("builder")

// A BVH tree node. Nodes reference their children by index into the tree's
// node array; a node with equal child indices is a leaf. Both leafs and
// inner nodes cover the contiguous primitive range [start, start+size).
type bvhNode struct {
	bounds BBox
	start  uint32
	size   uint32
	left   uint32
	right  uint32
}

func (n bvhNode) isLeaf() bool {
	return n.left == n.right
}

// A bounding volume hierarchy over a set of primitives. The tree owns its
// primitive slice and reorders it in place during Build. A built tree is
// immutable; any number of concurrent readers may call Hit on it as long
// as each supplies its own Ray.
//
// BVH implements Primitive itself so trees can be nested to form
// aggregates of aggregates.
type BVH struct {
	nodes      []bvhNode
	primitives []Primitive
	rootIdx    uint32
}

// Construct a BVH from a list of primitives. The tree takes ownership of
// the slice.
func NewBVH(primitives []Primitive, maxLeafSize int) *BVH {
	tree := &BVH{}
	tree.Build(primitives, maxLeafSize)
	return tree
}

// Build the tree over the given primitives, discarding any previous
// contents. The slice is moved into the tree and partitioned in place;
// after Build it holds a permutation of the original primitives. An empty
// input produces an empty tree.
func (t *BVH) Build(primitives []Primitive, maxLeafSize int) {
	t.nodes = t.nodes[:0]
	t.primitives = primitives
	t.rootIdx = 0

	if len(primitives) == 0 {
		return
	}
	if maxLeafSize < 1 {
		maxLeafSize = 1
	}

	start := time.Now()

	bounds := EmptyBBox()
	for _, prim := range primitives {
		bounds.Enclose(prim.BBox())
	}

	t.rootIdx = t.newNode(bounds, 0, uint32(len(primitives)))
	t.buildSubtree(t.rootIdx, maxLeafSize)

	stats := t.Stats()
	builderLogger.Debugf(
		"partitioned %d primitives in %d ms: %d nodes, %d leafs, max depth %d",
		len(primitives), time.Since(start).Nanoseconds()/1e6,
		stats.Nodes, stats.Leafs, stats.MaxDepth,
	)
}

// Append a leaf node covering [start, start+size) and return its index.
// Callers linking it as an inner node patch the child indices afterwards.
func (t *BVH) newNode(bounds BBox, start, size uint32) uint32 {
	t.nodes = append(t.nodes, bvhNode{bounds: bounds, start: start, size: size})
	return uint32(len(t.nodes) - 1)
}

// Recursively partition the primitive range covered by the node at
// nodeIdx using binned SAH splits.
//
// For every axis the node extent is divided into nBins equal-width bins
// and each primitive is dropped into the bin holding its bbox centroid.
// Prefix sums over the bins then give the bounds and count on either side
// of each of the nBins-1 candidate split planes, scored as
// area(left)*count(left) + area(right)*count(right). The cheapest
// candidate across all axes wins; ties keep the first one encountered.
func (t *BVH) buildSubtree(nodeIdx uint32, maxLeafSize int) {
	node := t.nodes[nodeIdx]
	if int(node.size) <= maxLeafSize {
		return
	}

	var (
		bestCost  float32 = 0
		bestAxis          = -1
		bestSplit int
		bestLeft  BBox
		bestRight BBox
		bestBins  []int
	)

	binOf := make([]int, node.size)
	for axis := 0; axis < 3; axis++ {
		axisMin, axisMax := node.bounds.Min[axis], node.bounds.Max[axis]
		if axisMax <= axisMin {
			// Zero extent; binning would divide by zero and no
			// split along this axis can separate anything.
			continue
		}

		var binCount [nBins]uint32
		var binBounds [nBins]BBox
		for bin := range binBounds {
			binBounds[bin] = EmptyBBox()
		}

		binScale := float32(nBins) / (axisMax - axisMin)
		for i := uint32(0); i < node.size; i++ {
			primBounds := t.primitives[node.start+i].BBox()
			centroid := (primBounds.Min[axis] + primBounds.Max[axis]) * 0.5
			bin := int((centroid - axisMin) * binScale)
			if bin < 0 {
				bin = 0
			} else if bin >= nBins {
				bin = nBins - 1
			}
			binOf[i] = bin
			binCount[bin]++
			binBounds[bin].Enclose(primBounds)
		}

		// leftBounds[i]/leftSum[i] cover bins [0, i); the right arrays
		// mirror them and cover bins [nBins-i, nBins).
		var leftBounds, rightBounds [nBins + 1]BBox
		var leftSum, rightSum [nBins + 1]uint32
		leftBounds[0], rightBounds[0] = EmptyBBox(), EmptyBBox()
		for i := 0; i < nBins; i++ {
			leftBounds[i+1] = leftBounds[i]
			leftBounds[i+1].Enclose(binBounds[i])
			leftSum[i+1] = leftSum[i] + binCount[i]

			rightBounds[i+1] = rightBounds[i]
			rightBounds[i+1].Enclose(binBounds[nBins-1-i])
			rightSum[i+1] = rightSum[i] + binCount[nBins-1-i]
		}

		for split := 1; split < nBins; split++ {
			cost := leftBounds[split].SurfaceArea()*float32(leftSum[split]) +
				rightBounds[nBins-split].SurfaceArea()*float32(rightSum[nBins-split])
			if bestAxis == -1 || cost < bestCost {
				if bestAxis != axis {
					bestBins = append(bestBins[:0], binOf...)
				}
				bestCost = cost
				bestAxis = axis
				bestSplit = split
				bestLeft = leftBounds[split]
				bestRight = rightBounds[nBins-split]
			}
		}
	}

	// All axes were degenerate (e.g. coincident centroids in a zero
	// volume box); keep the range as an oversized leaf.
	if bestAxis == -1 {
		return
	}

	// Stable in-place partition using the recorded bin assignments of
	// the winning axis: bins [0, bestSplit) go left, the rest right.
	left := make([]Primitive, 0, node.size)
	right := make([]Primitive, 0, node.size)
	for i, bin := range bestBins {
		if bin < bestSplit {
			left = append(left, t.primitives[node.start+uint32(i)])
		} else {
			right = append(right, t.primitives[node.start+uint32(i)])
		}
	}

	// A one-sided split cannot make progress; keep the range as a leaf.
	if len(left) == 0 || len(right) == 0 {
		return
	}

	copy(t.primitives[node.start:], left)
	copy(t.primitives[node.start+uint32(len(left)):], right)

	leftIdx := t.newNode(bestLeft, node.start, uint32(len(left)))
	rightIdx := t.newNode(bestRight, node.start+uint32(len(left)), uint32(len(right)))
	t.nodes[nodeIdx].left = leftIdx
	t.nodes[nodeIdx].right = rightIdx

	t.buildSubtree(leftIdx, maxLeafSize)
	t.buildSubtree(rightIdx, maxLeafSize)
}

// Find the nearest intersection of a ray with any primitive in the tree.
// Returns a miss trace when the tree is empty or the ray misses the root
// bounds.
func (t *BVH) Hit(r *Ray) Trace {
	var closest Trace
	if len(t.nodes) == 0 {
		return closest
	}

	times := r.DistBounds
	if t.nodes[t.rootIdx].bounds.Intersect(r, &times) {
		t.hitSubtree(r, t.rootIdx, &closest)
	}
	return closest
}

// Descend into the node at nodeIdx accumulating the closest hit. Children
// are visited near-first and a child is skipped outright when its box
// interval starts beyond the best hit found so far.
func (t *BVH) hitSubtree(r *Ray, nodeIdx uint32, closest *Trace) {
	node := &t.nodes[nodeIdx]
	if node.isLeaf() {
		for i := node.start; i < node.start+node.size; i++ {
			*closest = MinTrace(*closest, t.primitives[i].Hit(r))
		}
		return
	}

	// Each child gets its own copy of the current distance bounds since
	// their box overlap ranges differ.
	timesLeft, timesRight := r.DistBounds, r.DistBounds
	leftViable := t.nodes[node.left].bounds.Intersect(r, &timesLeft) &&
		(!closest.Hit || timesLeft[0] < closest.Distance)
	rightViable := t.nodes[node.right].bounds.Intersect(r, &timesRight) &&
		(!closest.Hit || timesRight[0] < closest.Distance)

	switch {
	case leftViable && rightViable:
		first, second := node.left, node.right
		secondNear := timesRight[0]
		if timesRight[0] < timesLeft[0] {
			first, second = node.right, node.left
			secondNear = timesLeft[0]
		}
		t.hitSubtree(r, first, closest)
		// A hit in the near child may have disqualified the far one.
		if !closest.Hit || secondNear < closest.Distance {
			t.hitSubtree(r, second, closest)
		}
	case leftViable:
		t.hitSubtree(r, node.left, closest)
	case rightViable:
		t.hitSubtree(r, node.right, closest)
	}
}

// Get the bounding box of the whole tree. Empty trees report an empty box.
func (t *BVH) BBox() BBox {
	if len(t.nodes) == 0 {
		return EmptyBBox()
	}
	return t.nodes[t.rootIdx].bounds
}

// Create an independent deep copy of the tree. The copy shares no node or
// primitive storage with the original.
func (t *BVH) Copy() *BVH {
	clone := &BVH{
		nodes:      make([]bvhNode, len(t.nodes)),
		primitives: make([]Primitive, len(t.primitives)),
		rootIdx:    t.rootIdx,
	}
	copy(clone.nodes, t.nodes)
	copy(clone.primitives, t.primitives)
	return clone
}

// Discard the tree and hand back ownership of the primitive slice.
func (t *BVH) Destructure() []Primitive {
	t.nodes = nil
	primitives := t.primitives
	t.primitives = nil
	return primitives
}

// Empty the tree, dropping both nodes and primitives.
func (t *BVH) Clear() {
	t.nodes = nil
	t.primitives = nil
	t.rootIdx = 0
}

// Tree shape statistics.
type TreeStats struct {
	Nodes      int
	Leafs      int
	Primitives int
	MaxDepth   int
	MaxLeaf    int
}

// Collect statistics by walking the tree with an explicit stack.
func (t *BVH) Stats() TreeStats {
	var stats TreeStats
	if len(t.nodes) == 0 {
		return stats
	}

	type stackEntry struct {
		idx   uint32
		depth int
	}
	stack := []stackEntry{{t.rootIdx, 0}}
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes[entry.idx]
		stats.Nodes++
		if entry.depth > stats.MaxDepth {
			stats.MaxDepth = entry.depth
		}

		if node.isLeaf() {
			stats.Leafs++
			stats.Primitives += int(node.size)
			if int(node.size) > stats.MaxLeaf {
				stats.MaxLeaf = int(node.size)
			}
			continue
		}
		stack = append(stack,
			stackEntry{node.left, entry.depth + 1},
			stackEntry{node.right, entry.depth + 1},
		)
	}
	return stats
}
