package probe

import (
	"sync"

	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/jakecoffman/cp"
)

const (
	// Collision category of static world geometry. Only this category blocks
	// ground probes.
	categoryWorld uint = 1 << 0

	// Thickness of terrain segments.
	thickness = 0.0
)

var worldFilter = cp.ShapeFilter{
	Group:      cp.NO_GROUP,
	Categories: cp.ALL_CATEGORIES,
	Mask:       categoryWorld,
}

// Profile is terrain described by a cross-section in the X/Y plane, extruded
// infinitely along Z. The cross-section is a set of static segments in a
// chipmunk space, which rays are projected into.
type Profile struct {
	space *cp.Space

	// Queries lock the space internally, so can't run concurrently.
	mu sync.Mutex
}

// NewProfile builds a terrain profile from the given segments.
func NewProfile(segments []config.Segment) *Profile {
	space := cp.NewSpace()

	for _, seg := range segments {
		a := cp.Vector{X: seg.X1, Y: seg.Y1}
		b := cp.Vector{X: seg.X2, Y: seg.Y2}
		shape := cp.NewSegment(space.StaticBody, a, b, thickness)
		shape.SetFilter(cp.ShapeFilter{
			Group:      cp.NO_GROUP,
			Categories: categoryWorld,
			Mask:       cp.ALL_CATEGORIES,
		})
		space.AddShape(shape)
	}

	log.Debugf("built terrain profile with %d segments", len(segments))

	return &Profile{space: space}
}

// Probe projects the ray into the profile plane and returns the first segment
// it crosses. Rays parallel to Z have no extent in the profile, so never hit.
func (p *Profile) Probe(origin, toward math3d.Vector3) Hit {
	a := cp.Vector{X: origin.X, Y: origin.Y}
	b := cp.Vector{X: toward.X, Y: toward.Y}
	if a.X == b.X && a.Y == b.Y {
		return Hit{}
	}

	p.mu.Lock()
	info := p.space.SegmentQueryFirst(a, b, 0, worldFilter)
	p.mu.Unlock()

	if info.Shape == nil {
		return Hit{}
	}

	// The fraction along the projected ray is the same as along the real one,
	// since the projection is linear.
	return Hit{
		OK:       true,
		Location: origin.Lerp(toward, info.Alpha),
		Normal:   math3d.Vector3{X: info.Normal.X, Y: info.Normal.Y, Z: 0}.Unit(),
	}
}

// Height returns the height of the highest surface below y at the given X, or
// false if there's none within depth.
func (p *Profile) Height(x, y, depth float64) (float64, bool) {
	hit := p.Probe(math3d.Vector3{X: x, Y: y}, math3d.Vector3{X: x, Y: y - depth})
	if !hit.OK {
		return 0, false
	}

	return hit.Location.Y, true
}
