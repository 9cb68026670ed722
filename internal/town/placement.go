package town

import "towngen/internal/mathutil"

// Kind is the category of a placed object.
type Kind string

const (
	KindRoad       Kind = "road"
	KindPavement   Kind = "pavement"
	KindWall       Kind = "wall"
	KindWallCorner Kind = "wall_corner"
	KindGate       Kind = "gate"
	KindLamppost   Kind = "lamppost"
	KindBuilding   Kind = "building"
	KindTree       Kind = "tree"
	KindBush       Kind = "bush"
	KindGrass      Kind = "grass"
	KindFootpath   Kind = "footpath"
)

// Placement is one object for a renderer to instantiate. Position and Scale
// use world axes (Y up); Rotation holds Euler angles in degrees.
type Placement struct {
	Kind     Kind
	Variant  string
	Position mathutil.Vec3
	Rotation mathutil.Vec3
	Scale    mathutil.Vec3
}

// Yaw is the rotation about the vertical axis.
func (p Placement) Yaw() float64 { return p.Rotation.Y }

// Surface elevations. Roads sit slightly above pavements so coplanar quads
// do not fight.
const (
	roadElevation     = 0.01
	pavementElevation = 0.0
	footpathElevation = 0.02
)

// flat is the rotation that lays a vertical quad on the ground.
var flat = mathutil.Vec3{X: 90}

func yawOnly(deg float64) mathutil.Vec3 { return mathutil.Vec3{Y: deg} }

func uniformScale(s float64) mathutil.Vec3 { return mathutil.Vec3{X: s, Y: s, Z: s} }
