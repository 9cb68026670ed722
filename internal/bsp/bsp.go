// Package bsp splits a rectangle into a binary tree of plots.
//
// Plots live in an arena and refer to each other by index, so a tree can be
// copied, compared and walked without pointer ownership questions.
package bsp

import (
	"fmt"
	"math/rand"
)

// splitChance is the probability that a node within the size limits is split
// anyway.
const splitChance = 0.75

// NoPlot marks an absent parent or child.
const NoPlot = -1

// TieBreak decides the cut axis when both dimensions are equal.
type TieBreak int

const (
	TieRandom     TieBreak = iota // one rng draw picks the axis
	TieVertical                   // cut across the width
	TieHorizontal                 // cut across the height
)

// ParseTieBreak maps a config value to a TieBreak.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "random":
		return TieRandom, nil
	case "vertical":
		return TieVertical, nil
	case "horizontal":
		return TieHorizontal, nil
	}
	return TieRandom, fmt.Errorf("unknown split tie break %q", s)
}

func (t TieBreak) String() string {
	switch t {
	case TieVertical:
		return "vertical"
	case TieHorizontal:
		return "horizontal"
	default:
		return "random"
	}
}

// Rect is an integer rectangle with its origin at the minimum corner.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Area() int { return r.W * r.H }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Plot is one node of the partition tree.
type Plot struct {
	ID     int
	Rect   Rect
	Parent int
	Left   int
	Right  int
	Depth  int
}

// IsLeaf reports whether the plot was never split.
func (p Plot) IsLeaf() bool { return p.Left == NoPlot && p.Right == NoPlot }

// Options bound the partition.
type Options struct {
	MinSize  int
	MaxSize  int
	TieBreak TieBreak
}

// Tree is the arena of every plot created by Partition. Plots[0] is the root.
// Leaves holds leaf ids in depth-first, left-before-right order, which is the
// order the town builder develops them in.
type Tree struct {
	Plots  []Plot
	Leaves []int
}

// Root returns the root plot.
func (t *Tree) Root() Plot { return t.Plots[0] }

// Leaf returns the i-th leaf plot.
func (t *Tree) Leaf(i int) Plot { return t.Plots[t.Leaves[i]] }

// LeafPlots copies the leaf plots in build order.
func (t *Tree) LeafPlots() []Plot {
	out := make([]Plot, len(t.Leaves))
	for i, id := range t.Leaves {
		out[i] = t.Plots[id]
	}
	return out
}

// Walk visits every plot depth first, parents before children.
func (t *Tree) Walk(fn func(p Plot)) {
	if t == nil || len(t.Plots) == 0 {
		return
	}
	var visit func(id int)
	visit = func(id int) {
		p := t.Plots[id]
		fn(p)
		if p.Left != NoPlot {
			visit(p.Left)
		}
		if p.Right != NoPlot {
			visit(p.Right)
		}
	}
	visit(0)
}

// Partition recursively splits a width x height rectangle. Oversized nodes
// are always split when possible; others are split with probability 0.75.
// Randomness comes only from rng, in a fixed order, so equal seeds give
// equal trees.
func Partition(rng *rand.Rand, width, height int, opts Options) *Tree {
	if opts.MinSize < 1 {
		opts.MinSize = 1
	}
	t := &Tree{}
	t.add(Rect{0, 0, width, height}, NoPlot, 0)
	t.split(rng, 0, opts)
	return t
}

func (t *Tree) add(r Rect, parent, depth int) int {
	id := len(t.Plots)
	t.Plots = append(t.Plots, Plot{
		ID:     id,
		Rect:   r,
		Parent: parent,
		Left:   NoPlot,
		Right:  NoPlot,
		Depth:  depth,
	})
	return id
}

func (t *Tree) split(rng *rand.Rand, id int, opts Options) {
	r := t.Plots[id].Rect
	// Oversized nodes skip the draw.
	want := r.W > opts.MaxSize || r.H > opts.MaxSize || rng.Float64() > 1-splitChance
	if !want {
		t.Leaves = append(t.Leaves, id)
		return
	}
	a, b, ok := cut(rng, r, opts)
	if !ok {
		t.Leaves = append(t.Leaves, id)
		return
	}
	depth := t.Plots[id].Depth + 1
	left := t.add(a, id, depth)
	right := t.add(b, id, depth)
	t.Plots[id].Left = left
	t.Plots[id].Right = right
	t.split(rng, left, opts)
	t.split(rng, right, opts)
}

// cut divides r into two rects that are both at least MinSize on the cut
// axis. ok is false when neither axis can take a cut.
func cut(rng *rand.Rand, r Rect, opts Options) (a, b Rect, ok bool) {
	minSize := opts.MinSize
	canW := r.W >= 2*minSize
	canH := r.H >= 2*minSize

	var vertical bool
	switch {
	case canW && canH:
		switch {
		case r.W > r.H:
			vertical = true
		case r.H > r.W:
			vertical = false
		default:
			switch opts.TieBreak {
			case TieVertical:
				vertical = true
			case TieHorizontal:
				vertical = false
			default:
				vertical = rng.Intn(2) == 0
			}
		}
	case canW:
		vertical = true
	case canH:
		vertical = false
	default:
		return Rect{}, Rect{}, false
	}

	if vertical {
		at := minSize + rng.Intn(r.W-2*minSize+1)
		return Rect{r.X, r.Y, at, r.H}, Rect{r.X + at, r.Y, r.W - at, r.H}, true
	}
	at := minSize + rng.Intn(r.H-2*minSize+1)
	return Rect{r.X, r.Y, r.W, at}, Rect{r.X, r.Y + at, r.W, r.H - at}, true
}
