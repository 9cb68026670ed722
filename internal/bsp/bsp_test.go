package bsp

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestPartitionTilesRoot(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		tree := Partition(rng, 88, 68, Options{MinSize: 10, MaxSize: 24})

		area := 0
		leaves := tree.LeafPlots()
		for i, a := range leaves {
			area += a.Rect.Area()
			for _, b := range leaves[i+1:] {
				if a.Rect.Overlaps(b.Rect) {
					t.Fatalf("seed %d: leaves %v and %v overlap", seed, a.Rect, b.Rect)
				}
			}
			if a.Rect.X < 0 || a.Rect.Y < 0 || a.Rect.X+a.Rect.W > 88 || a.Rect.Y+a.Rect.H > 68 {
				t.Fatalf("seed %d: leaf %v outside root", seed, a.Rect)
			}
		}
		if area != 88*68 {
			t.Fatalf("seed %d: leaf area %d, want %d", seed, area, 88*68)
		}
	}
}

func TestPartitionChildrenTileParent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := Partition(rng, 120, 90, Options{MinSize: 8, MaxSize: 20})

	tree.Walk(func(p Plot) {
		if p.IsLeaf() {
			return
		}
		if p.Left == NoPlot || p.Right == NoPlot {
			t.Fatalf("plot %d has a single child", p.ID)
		}
		l, r := tree.Plots[p.Left].Rect, tree.Plots[p.Right].Rect
		if l.Overlaps(r) {
			t.Errorf("children of %d overlap", p.ID)
		}
		if l.Area()+r.Area() != p.Rect.Area() {
			t.Errorf("children of %d cover %d cells, want %d", p.ID, l.Area()+r.Area(), p.Rect.Area())
		}
		if tree.Plots[p.Left].Parent != p.ID || tree.Plots[p.Right].Parent != p.ID {
			t.Errorf("children of %d do not point back at it", p.ID)
		}
	})
}

func TestPartitionSizeLimits(t *testing.T) {
	opts := Options{MinSize: 10, MaxSize: 24}
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		tree := Partition(rng, 140, 100, opts)
		for _, p := range tree.LeafPlots() {
			if p.Rect.W < opts.MinSize || p.Rect.H < opts.MinSize {
				t.Errorf("seed %d: leaf %v below min size", seed, p.Rect)
			}
			// MaxSize >= 2*MinSize-1, so every oversized node was splittable.
			if p.Rect.W > opts.MaxSize || p.Rect.H > opts.MaxSize {
				t.Errorf("seed %d: leaf %v above max size", seed, p.Rect)
			}
		}
	}
}

func TestPartitionSmallRootIsLeaf(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tree := Partition(rng, 15, 19, Options{MinSize: 10, MaxSize: 12})

	if len(tree.Plots) != 1 || len(tree.Leaves) != 1 {
		t.Fatalf("expected a single leaf, got %d plots / %d leaves", len(tree.Plots), len(tree.Leaves))
	}
	if got := tree.Root().Rect; got != (Rect{0, 0, 15, 19}) {
		t.Fatalf("root rect = %v", got)
	}
}

func TestPartitionDeterministic(t *testing.T) {
	opts := Options{MinSize: 6, MaxSize: 18}
	a := Partition(rand.New(rand.NewSource(42)), 90, 70, opts)
	b := Partition(rand.New(rand.NewSource(42)), 90, 70, opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different trees")
	}
}

func TestPartitionTieBreak(t *testing.T) {
	cases := []struct {
		tie      TieBreak
		vertical bool
	}{
		{TieVertical, true},
		{TieHorizontal, false},
	}
	for _, tc := range cases {
		t.Run(tc.tie.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			// 40 > MaxSize forces the first split without a draw.
			tree := Partition(rng, 40, 40, Options{MinSize: 10, MaxSize: 19, TieBreak: tc.tie})
			root := tree.Root()
			if root.IsLeaf() {
				t.Fatal("root was not split")
			}
			left := tree.Plots[root.Left].Rect
			if gotVertical := left.H == 40; gotVertical != tc.vertical {
				t.Fatalf("first cut %v, want vertical=%v", left, tc.vertical)
			}
		})
	}
}

func TestParseTieBreak(t *testing.T) {
	for in, want := range map[string]TieBreak{"": TieRandom, "random": TieRandom, "vertical": TieVertical, "horizontal": TieHorizontal} {
		got, err := ParseTieBreak(in)
		if err != nil || got != want {
			t.Errorf("ParseTieBreak(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTieBreak("diagonal"); err == nil {
		t.Error("expected an error for an unknown tie break")
	}
}
