// pkg/engine/autopilot.go
package engine

import (
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// Phase is one leg of an autopilot program.
type Phase struct {
	Name     string
	Duration float32
	Controls physics.Controls
}

// Autopilot replays a fixed program of control phases. It drives the
// headless runner and makes scene tests reproducible.
type Autopilot struct {
	Phases []Phase
	Loop   bool

	index   int
	elapsed float32
}

// NewAutopilot creates an autopilot for the given phases. Phases with a
// non-positive duration are skipped.
func NewAutopilot(loop bool, phases ...Phase) *Autopilot {
	kept := make([]Phase, 0, len(phases))
	for _, p := range phases {
		if p.Duration > 0 {
			kept = append(kept, p)
		}
	}
	return &Autopilot{Phases: kept, Loop: loop}
}

// DefaultAutopilot returns a looping sightseeing flight: speed up, bank
// left, climb, bank right, descend and slow down again.
func DefaultAutopilot() *Autopilot {
	return NewAutopilot(true,
		Phase{Name: "accelerate", Duration: 5, Controls: physics.Controls{Throttle: physics.Positive}},
		Phase{Name: "left", Duration: 4, Controls: physics.Controls{Turn: physics.Positive}},
		Phase{Name: "climb", Duration: 3, Controls: physics.Controls{Pitch: physics.Positive}},
		Phase{Name: "cruise", Duration: 2},
		Phase{Name: "right", Duration: 4, Controls: physics.Controls{Turn: physics.Negative}},
		Phase{Name: "descend", Duration: 3, Controls: physics.Controls{Pitch: physics.Negative}},
		Phase{Name: "decelerate", Duration: 5, Controls: physics.Controls{Throttle: physics.Negative}},
	)
}

// Next advances the program by dt seconds and returns the controls of the
// phase that was active at the start of the step. A finished program
// returns neutral controls.
func (a *Autopilot) Next(dt float32) physics.Controls {
	if a.Done() {
		return physics.Controls{}
	}
	c := a.Phases[a.index].Controls
	if dt > 0 {
		a.advance(dt)
	}
	return c
}

// Phase returns the active phase, if any.
func (a *Autopilot) Phase() (Phase, bool) {
	if a.Done() {
		return Phase{}, false
	}
	return a.Phases[a.index], true
}

// Done reports whether a non-looping program has run out.
func (a *Autopilot) Done() bool {
	return a.index >= len(a.Phases)
}

// Reset restarts the program.
func (a *Autopilot) Reset() {
	a.index = 0
	a.elapsed = 0
}

func (a *Autopilot) advance(dt float32) {
	a.elapsed += dt
	for !a.Done() && a.elapsed >= a.Phases[a.index].Duration {
		a.elapsed -= a.Phases[a.index].Duration
		a.index++
		if a.Done() && a.Loop {
			a.index = 0
		}
	}
}
