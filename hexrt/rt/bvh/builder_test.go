package bvh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTwoObjectsSplit(t *testing.T) {
	bounds := [][2]mgl32.Vec3{
		{{-100, -1, -1}, {-98, 1, 1}},
		{{100, -1, -1}, {102, 1, 1}},
	}

	tree := Build(bounds)
	data := tree.Bytes()

	// Root, left, right.
	if len(data) != NodeSize*3 {
		t.Fatalf("Expected 192 bytes (3 nodes), got %d", len(data))
	}

	rootMin := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	rootMax := math.Float32frombits(binary.LittleEndian.Uint32(data[16:20]))
	if rootMin > -100 {
		t.Errorf("Root min X should be <= -100, got %f", rootMin)
	}
	if rootMax < 100 {
		t.Errorf("Root max X should be >= 100, got %f", rootMax)
	}

	leftIdx := int32(binary.LittleEndian.Uint32(data[32:36]))
	rightIdx := int32(binary.LittleEndian.Uint32(data[36:40]))
	if leftIdx == -1 || rightIdx == -1 {
		t.Fatalf("Root should have two children, got left=%d right=%d", leftIdx, rightIdx)
	}
	if leftIdx == rightIdx {
		t.Error("Left and right indices should be different")
	}
	if !tree.Nodes[leftIdx].IsLeaf() || !tree.Nodes[rightIdx].IsLeaf() {
		t.Error("Children of a two-item tree should be leaves")
	}
}

func TestSingleObject(t *testing.T) {
	tree := Build([][2]mgl32.Vec3{{{0, 0, 0}, {1, 1, 1}}})
	if len(tree.Nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(tree.Nodes))
	}
	root := tree.Nodes[0]
	if !root.IsLeaf() {
		t.Error("Root should be a leaf (left and right = -1)")
	}
	if root.LeafFirst != 0 || root.LeafCount != 1 {
		t.Errorf("Leaf should reference object 0, got first=%d count=%d", root.LeafFirst, root.LeafCount)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := Build(nil)
	if len(tree.Bytes()) != NodeSize {
		t.Fatalf("Expected one blank node, got %d bytes", len(tree.Bytes()))
	}
	if hit := tree.Raycast(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, 100, nil); hit.Hit {
		t.Error("Empty tree must never report a hit")
	}
}

func gridBounds(n int) [][2]mgl32.Vec3 {
	out := make([][2]mgl32.Vec3, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := mgl32.Vec3{float32(x) * 2, float32(y) * 2, 0}
			out = append(out, [2]mgl32.Vec3{c.Sub(mgl32.Vec3{0.5, 0.5, 0.1}), c.Add(mgl32.Vec3{0.5, 0.5, 0.1})})
		}
	}
	return out
}

func TestRaycastFindsEveryLeaf(t *testing.T) {
	bounds := gridBounds(8)
	tree := Build(bounds)
	for i, b := range bounds {
		center := b[0].Add(b[1]).Mul(0.5)
		hit := tree.Raycast(center.Add(mgl32.Vec3{0, 0, 10}), mgl32.Vec3{0, 0, -1}, 100, nil)
		if !hit.Hit || hit.Index != i {
			t.Fatalf("ray above box %d hit %+v", i, hit)
		}
		if math.Abs(float64(hit.T-9.9)) > 1e-4 {
			t.Errorf("box %d hit at t=%f, want 9.9", i, hit.T)
		}
	}

	// Between boxes.
	if hit := tree.Raycast(mgl32.Vec3{1, 1, 10}, mgl32.Vec3{0, 0, -1}, 100, nil); hit.Hit {
		t.Errorf("ray through a gap hit %+v", hit)
	}
	// Too short.
	if hit := tree.Raycast(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, 5, nil); hit.Hit {
		t.Errorf("ray shorter than the distance hit %+v", hit)
	}
}

func TestRaycastNarrowPhase(t *testing.T) {
	tree := Build(gridBounds(4))
	reject := func(index int, origin, dir mgl32.Vec3, tBox float32) (float32, bool) {
		return tBox, index != 5
	}
	hit := tree.Raycast(mgl32.Vec3{2, 2, 10}, mgl32.Vec3{0, 0, -1}, 100, reject)
	if hit.Hit {
		t.Errorf("narrow phase rejection ignored: %+v", hit)
	}
	hit = tree.Raycast(mgl32.Vec3{4, 2, 10}, mgl32.Vec3{0, 0, -1}, 100, reject)
	if !hit.Hit || hit.Index != 6 {
		t.Errorf("expected box 6, got %+v", hit)
	}
}
