// Package noise provides seeded coherent 2D noise normalised to [0, 1].
package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Field samples a coherent noise value in [0, 1] at a 2D coordinate.
type Field interface {
	At(x, y float64) float64
}

// Algorithm names a noise implementation.
type Algorithm string

const (
	Perlin  Algorithm = "perlin"
	Simplex Algorithm = "simplex"
)

// Perlin parameters used for every field: two octaves of smooth noise.
const (
	perlinAlpha  = 2
	perlinBeta   = 2
	perlinOctave = 2
)

// New builds a field for the named algorithm. An empty name means Perlin.
func New(alg Algorithm, seed int64) (Field, error) {
	switch alg {
	case "", Perlin:
		return NewPerlin(seed), nil
	case Simplex:
		return NewSimplex(seed), nil
	}
	return nil, fmt.Errorf("unknown noise algorithm %q", alg)
}

type perlinField struct {
	p *perlin.Perlin
}

// NewPerlin returns a Perlin field. The raw signal is roughly symmetric
// around zero; it is remapped to [0, 1].
func NewPerlin(seed int64) Field {
	return perlinField{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed)}
}

func (f perlinField) At(x, y float64) float64 {
	return clamp01((f.p.Noise2D(x, y) + 1) / 2)
}

type simplexField struct {
	n opensimplex.Noise
}

// NewSimplex returns an OpenSimplex field.
func NewSimplex(seed int64) Field {
	return simplexField{n: opensimplex.NewNormalized(seed)}
}

func (f simplexField) At(x, y float64) float64 {
	return clamp01(f.n.Eval2(x, y))
}

// Scaled samples a field at integer cell coordinates multiplied by scale,
// the way every scatter pass reads it.
func Scaled(f Field, x, y int, scale float64) float64 {
	return f.At(float64(x)*scale, float64(y)*scale)
}

// Constant is a field with the same value everywhere. Tests use it to switch
// noise gating on or off.
type Constant float64

func (c Constant) At(_, _ float64) float64 { return float64(c) }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Set groups the independent fields one generation reads.
type Set struct {
	Tree     Field
	Bush     Field
	Grass    Field
	Building Field
}

// Field seed offsets keep the layers independent of each other.
const (
	treeOffset = iota + 1
	bushOffset
	grassOffset
	buildingOffset
)

// NewSet derives one field per scatter category from seed.
func NewSet(alg Algorithm, seed int64) (Set, error) {
	var s Set
	var err error
	if s.Tree, err = New(alg, seed+treeOffset); err != nil {
		return Set{}, err
	}
	if s.Bush, err = New(alg, seed+bushOffset); err != nil {
		return Set{}, err
	}
	if s.Grass, err = New(alg, seed+grassOffset); err != nil {
		return Set{}, err
	}
	if s.Building, err = New(alg, seed+buildingOffset); err != nil {
		return Set{}, err
	}
	return s, nil
}
