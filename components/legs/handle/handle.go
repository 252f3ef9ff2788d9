package handle

import (
	"fmt"
	"time"

	"github.com/adammck/walker/math3d"
)

// Handle pins a foot to a location and orientation in the world. It can be
// moved instantly, or smoothly over a duration. While smoothly moving, the
// destination can itself be interpolated between two points (the "goal"), so
// a moving target can be blended toward without restarting the move.
//
// A handle starts released. Commands sent to a released handle are ignored,
// since there's nothing to move.
type Handle struct {
	attached bool

	location    math3d.Vector3
	orientation math3d.EulerAngles

	// Smooth relocation from `from` to `to`.
	interpolating bool
	from          math3d.Vector3
	to            math3d.Vector3
	duration      time.Duration
	elapsed       time.Duration

	// If set, `to` is recalculated every tick as the point between goalStart
	// and goalEnd at the same fraction as the relocation.
	goalInterp bool
	goalStart  math3d.Vector3
	goalEnd    math3d.Vector3
}

func (h *Handle) String() string {
	if !h.attached {
		return "&Handle{released}"
	}

	if h.interpolating {
		return fmt.Sprintf("&Handle{loc=%s dest=%s t=%v/%v goal=%v}", h.location, h.to, h.elapsed, h.duration, h.goalInterp)
	}

	return fmt.Sprintf("&Handle{loc=%s}", h.location)
}

// Attach pins the handle at the given location, cancelling any relocation.
func (h *Handle) Attach(at math3d.Vector3) {
	h.attached = true
	h.location = at
	h.stop()
}

// Release unpins the handle. Its state is kept until it's attached again, but
// shouldn't be relied on.
func (h *Handle) Release() {
	h.attached = false
	h.stop()
}

func (h *Handle) IsAttached() bool {
	return h.attached
}

// Location returns where the handle is pinned right now.
func (h *Handle) Location() math3d.Vector3 {
	return h.location
}

func (h *Handle) Orientation() math3d.EulerAngles {
	return h.orientation
}

// Interpolating returns true if a smooth relocation is in progress.
func (h *Handle) Interpolating() bool {
	return h.interpolating
}

// Destination returns where the handle will end up when the current smooth
// relocation finishes, as it stands right now. If there's no relocation in
// progress, returns the current location.
func (h *Handle) Destination() math3d.Vector3 {
	if h.interpolating {
		return h.to
	}

	return h.location
}

// Goal returns the location which the thing pinned by this handle should be
// converging on: the destination while relocating, otherwise the location.
// The bool is false if the handle is released, since there's no goal.
func (h *Handle) Goal() (math3d.Vector3, bool) {
	if !h.attached {
		return math3d.ZeroVector3, false
	}

	return h.Destination(), true
}

// SetLocation moves the handle instantly, cancelling any relocation.
func (h *Handle) SetLocation(to math3d.Vector3) {
	if !h.attached {
		return
	}

	h.location = to
	h.stop()
}

func (h *Handle) SetOrientation(ea math3d.EulerAngles) {
	if !h.attached {
		return
	}

	h.orientation = ea
}

// SetSmoothLocation starts moving the handle from its current location to the
// given location, arriving after d. Non-positive durations move instantly.
func (h *Handle) SetSmoothLocation(to math3d.Vector3, d time.Duration) {
	if !h.attached {
		return
	}

	if d <= 0 {
		h.SetLocation(to)
		return
	}

	h.interpolating = true
	h.goalInterp = false
	h.from = h.location
	h.to = to
	h.duration = d
	h.elapsed = 0
}

// UpdateSmoothLocation changes the destination of the current relocation,
// without resetting its progress. Does nothing if there isn't one.
func (h *Handle) UpdateSmoothLocation(to math3d.Vector3) {
	if !h.attached || !h.interpolating {
		return
	}

	h.goalInterp = false
	h.to = to
}

// SetSmoothLocationWithGoalInterp starts moving the handle from its current
// location toward a destination which itself moves from start to end, both
// arriving after d.
func (h *Handle) SetSmoothLocationWithGoalInterp(start, end math3d.Vector3, d time.Duration) {
	if !h.attached {
		return
	}

	if d <= 0 {
		h.SetLocation(end)
		return
	}

	h.SetSmoothLocation(start, d)
	h.goalInterp = true
	h.goalStart = start
	h.goalEnd = end
}

// UpdateSmoothLocationWithGoalInterp changes the end of the moving goal,
// keeping progress. Does nothing unless goal interpolation is in progress.
func (h *Handle) UpdateSmoothLocationWithGoalInterp(end math3d.Vector3) {
	if !h.attached || !h.goalInterp {
		return
	}

	h.goalEnd = end
	h.to = h.goalStart.Lerp(h.goalEnd, h.alpha())
}

// StopGoalInterp freezes the moving goal where it is now. The relocation
// carries on toward it.
func (h *Handle) StopGoalInterp() {
	h.goalInterp = false
}

// GoalInterpolating returns true if the destination is currently moving.
func (h *Handle) GoalInterpolating() bool {
	return h.goalInterp
}

// Tick advances any relocation in progress by dt.
func (h *Handle) Tick(dt time.Duration) {
	if !h.attached || !h.interpolating || dt <= 0 {
		return
	}

	h.elapsed += dt
	if h.elapsed >= h.duration {
		if h.goalInterp {
			h.to = h.goalEnd
		}
		h.location = h.to
		h.stop()
		return
	}

	a := h.alpha()
	if h.goalInterp {
		h.to = h.goalStart.Lerp(h.goalEnd, a)
	}

	h.location = h.from.Lerp(h.to, a)
}

func (h *Handle) alpha() float64 {
	if h.duration <= 0 {
		return 1
	}

	a := float64(h.elapsed) / float64(h.duration)
	if a > 1 {
		return 1
	}

	return a
}

func (h *Handle) stop() {
	h.interpolating = false
	h.goalInterp = false
	h.elapsed = 0
	h.duration = 0
}
