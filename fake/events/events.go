package events

import (
	"fmt"
)

type Kind string

const (
	StepBegan  Kind = "step-began"
	FootLanded Kind = "foot-landed"
	FootWater  Kind = "foot-water"
)

type Event struct {
	Kind    Kind
	Leg     int
	InWater bool
}

func (e Event) String() string {
	if e.Kind == FootWater {
		return fmt.Sprintf("%s(%d, %v)", e.Kind, e.Leg, e.InWater)
	}

	return fmt.Sprintf("%s(%d)", e.Kind, e.Leg)
}

// Recorder is a walker.Events which remembers every notification.
type Recorder struct {
	Events []Event
}

func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) StepBegan(leg int) {
	r.Events = append(r.Events, Event{Kind: StepBegan, Leg: leg})
}

func (r *Recorder) FootLanded(leg int) {
	r.Events = append(r.Events, Event{Kind: FootLanded, Leg: leg})
}

func (r *Recorder) FootWater(leg int, inWater bool) {
	r.Events = append(r.Events, Event{Kind: FootWater, Leg: leg, InWater: inWater})
}

// Count returns the number of events of the given kind.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}

	return n
}

// Legs returns the leg of each event of the given kind, in order.
func (r *Recorder) Legs(k Kind) []int {
	out := []int{}
	for _, e := range r.Events {
		if e.Kind == k {
			out = append(out, e.Leg)
		}
	}

	return out
}

// Reset forgets every event.
func (r *Recorder) Reset() {
	r.Events = nil
}
