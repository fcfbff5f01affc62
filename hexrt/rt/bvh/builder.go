// Package bvh is the collision proxy for the instance grid: a bounding volume
// hierarchy over per-instance boxes that answers ray queries on the CPU and
// can be mirrored to the GPU.
package bvh

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeSize matches the WGSL layout:
//
//	struct BVHNode {
//	   aabb_min : vec4<f32>; (16)
//	   aabb_max : vec4<f32>; (16)
//	   left : i32; (4)
//	   right : i32; (4)
//	   leaf_first : i32; (4)
//	   leaf_count : i32; (4)
//	   padding : i32[4]; (16)
//	}; -> 64 bytes
const NodeSize = 64

type Node struct {
	Min       mgl32.Vec3
	Max       mgl32.Vec3
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n *Node) IsLeaf() bool {
	return n.Left < 0 && n.Right < 0
}

func (n *Node) ToBytes() []byte {
	buf := make([]byte, NodeSize)

	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(n.Min.X()))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(n.Min.Y()))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(n.Min.Z()))

	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(n.Max.X()))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(n.Max.Y()))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(n.Max.Z()))

	binary.LittleEndian.PutUint32(buf[32:36], uint32(n.Left))
	binary.LittleEndian.PutUint32(buf[36:40], uint32(n.Right))
	binary.LittleEndian.PutUint32(buf[40:44], uint32(n.LeafFirst))
	binary.LittleEndian.PutUint32(buf[44:48], uint32(n.LeafCount))
	return buf
}

type item struct {
	min      mgl32.Vec3
	max      mgl32.Vec3
	centroid mgl32.Vec3
	index    int
}

// Tree is a median-split hierarchy with one instance per leaf. An empty tree
// has no nodes.
type Tree struct {
	Nodes []Node
}

// Build creates a tree over bounds; leaf LeafFirst is the index into bounds.
func Build(bounds [][2]mgl32.Vec3) *Tree {
	t := &Tree{}
	if len(bounds) == 0 {
		return t
	}

	items := make([]item, len(bounds))
	for i, b := range bounds {
		items[i] = item{
			min:      b[0],
			max:      b[1],
			centroid: b[0].Add(b[1]).Mul(0.5),
			index:    i,
		}
	}
	t.Nodes = make([]Node, 0, 2*len(items)-1)
	t.recursiveBuild(items)
	return t
}

func (t *Tree) recursiveBuild(items []item) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1, LeafCount: 0})

	inf := float32(math.Inf(1))
	minB := mgl32.Vec3{inf, inf, inf}
	maxB := mgl32.Vec3{-inf, -inf, -inf}
	for _, it := range items {
		minB = mgl32.Vec3{min(minB.X(), it.min.X()), min(minB.Y(), it.min.Y()), min(minB.Z(), it.min.Z())}
		maxB = mgl32.Vec3{max(maxB.X(), it.max.X()), max(maxB.Y(), it.max.Y()), max(maxB.Z(), it.max.Z())}
	}
	t.Nodes[idx].Min = minB
	t.Nodes[idx].Max = maxB

	if len(items) == 1 {
		t.Nodes[idx].LeafFirst = int32(items[0].index)
		t.Nodes[idx].LeafCount = 1
		return idx
	}

	// Split on the longest axis at the median centroid.
	extent := maxB.Sub(minB)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})

	mid := len(items) / 2
	left := t.recursiveBuild(items[:mid])
	right := t.recursiveBuild(items[mid:])
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx
}

// Bytes packs the nodes for a storage buffer. An empty tree packs one blank
// node so the buffer is never zero-sized.
func (t *Tree) Bytes() []byte {
	if len(t.Nodes) == 0 {
		return make([]byte, NodeSize)
	}
	out := make([]byte, 0, len(t.Nodes)*NodeSize)
	for i := range t.Nodes {
		out = append(out, t.Nodes[i].ToBytes()...)
	}
	return out
}
