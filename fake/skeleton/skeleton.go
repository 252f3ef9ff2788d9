package skeleton

import (
	"github.com/adammck/walker"
	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithFields(logrus.Fields{
	"pkg": "skeleton",
})

// FakeSkeleton is a skeleton with no animation or physics. Feet snap to their
// targets as soon as they're set, unless blocked. Released feet stay where they
// were. Mounted bones (shoulders) are fixed relative to the host.
type FakeSkeleton struct {
	host walker.Host

	bones   map[string]math3d.Vector3
	mounts  map[string]math3d.Vector3
	blocked map[string]bool
	pinned  map[string]bool
	orients map[string]math3d.EulerAngles
	aims    map[string]math3d.Vector3
}

// New returns an empty skeleton. If host is nil, mounted bones are relative to
// the world origin.
func New(host walker.Host) *FakeSkeleton {
	return &FakeSkeleton{
		host:    host,
		bones:   map[string]math3d.Vector3{},
		mounts:  map[string]math3d.Vector3{},
		blocked: map[string]bool{},
		pinned:  map[string]bool{},
		orients: map[string]math3d.EulerAngles{},
		aims:    map[string]math3d.Vector3{},
	}
}

// Mount fixes a bone at an offset (in the host's space) from the host.
func (s *FakeSkeleton) Mount(bone string, offset math3d.Vector3) {
	s.mounts[bone] = offset
}

// SetBone moves a bone, as if something external (physics, a shove) had moved
// it.
func (s *FakeSkeleton) SetBone(bone string, v math3d.Vector3) {
	s.bones[bone] = v
}

// Block stops (or starts) a bone following its target, as if it were stuck.
func (s *FakeSkeleton) Block(bone string, blocked bool) {
	s.blocked[bone] = blocked
}

func (s *FakeSkeleton) BoneLocation(bone string) math3d.Vector3 {
	if off, ok := s.mounts[bone]; ok {
		if s.host == nil {
			return off
		}

		return off.MultiplyByMatrix44(s.host.Pose().ToWorld())
	}

	return s.bones[bone]
}

func (s *FakeSkeleton) SetFootTarget(bone string, pos math3d.Vector3, orient math3d.EulerAngles) {
	s.pinned[bone] = true
	s.orients[bone] = orient

	if s.blocked[bone] {
		logger.Debugf("%s is blocked; not moving to %s", bone, pos)
		return
	}

	s.bones[bone] = pos
}

func (s *FakeSkeleton) ReleaseFoot(bone string) {
	s.pinned[bone] = false
}

func (s *FakeSkeleton) SetAimTarget(bone string, target math3d.Vector3) {
	s.aims[bone] = target
}

// Pinned returns true if the foot is currently pinned to a target.
func (s *FakeSkeleton) Pinned(bone string) bool {
	return s.pinned[bone]
}

// Orientation returns the last orientation the foot was pinned at.
func (s *FakeSkeleton) Orientation(bone string) math3d.EulerAngles {
	return s.orients[bone]
}

// Aim returns the last aim target of the bone, if any.
func (s *FakeSkeleton) Aim(bone string) (math3d.Vector3, bool) {
	v, ok := s.aims[bone]
	return v, ok
}
