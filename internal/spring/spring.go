package spring

import "math"

// Tuning constants for the damped spring integrator.
const (
	Stiffness = 200.0
	Damping   = 20.0
	Mass      = 1.0
	Precision = 0.01

	// MaxDt caps a single integration step so a long pause between ticks
	// (process suspend, dropped frames) cannot destabilize the simulation.
	MaxDt = 0.1
)

// State is one animated scalar: current value, target value, velocity.
type State struct {
	Value    float64
	Target   float64
	Velocity float64
}

// Settled reports whether the state is at rest within precision tolerance.
func (s State) Settled() bool {
	return math.Abs(s.Target-s.Value) < Precision && math.Abs(s.Velocity) < Precision
}

// Step advances the state by dt seconds and reports whether the property is
// still active (needs more ticks). A settled state snaps exactly onto its
// target so repeated steps are no-ops.
func Step(s State, dt float64) (State, bool) {
	if dt > MaxDt {
		dt = MaxDt
	}
	if dt <= 0 {
		return s, !s.Settled()
	}

	// force = k*(target - value) - c*velocity; a = force/m
	displacement := s.Target - s.Value
	accel := (Stiffness*displacement - Damping*s.Velocity) / Mass
	s.Velocity += accel * dt
	s.Value += s.Velocity * dt

	if s.Settled() {
		s.Value = s.Target
		s.Velocity = 0
		return s, false
	}
	return s, true
}

// Table holds the named animated properties of one render context.
//
// Properties start at value=target=0; the first update to a non-zero target
// snaps the value instead of animating, so elements do not fly in from the
// origin on the first configured frame.
type Table struct {
	props map[string]*entry
}

type entry struct {
	state   State
	started bool
}

func NewTable() *Table {
	return &Table{props: make(map[string]*entry)}
}

// SetTarget retargets a property, creating it on first use.
func (t *Table) SetTarget(name string, target float64) {
	e, ok := t.props[name]
	if !ok {
		e = &entry{}
		t.props[name] = e
	}
	if !e.started && target != 0 {
		e.state.Value = target
		e.state.Velocity = 0
		e.started = true
	}
	e.state.Target = target
}

// Value returns the current animated value of a property (0 if unknown).
func (t *Table) Value(name string) float64 {
	if e, ok := t.props[name]; ok {
		return e.state.Value
	}
	return 0
}

// StepAll advances every property by dt and reports whether any remains
// active.
func (t *Table) StepAll(dt float64) bool {
	active := false
	for _, e := range t.props {
		next, more := Step(e.state, dt)
		e.state = next
		if more {
			active = true
		}
	}
	return active
}

// Settled reports whether every property is at rest.
func (t *Table) Settled() bool {
	for _, e := range t.props {
		if !e.state.Settled() {
			return false
		}
	}
	return true
}
