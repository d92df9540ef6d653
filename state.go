package main

// State is one node of the search: what is owned and how much time is left.
// States are values; Next never mutates its receiver.
type State struct {
	Robots    Materials[int]
	Materials Materials[int]
	Remaining int
	Elapsed   int

	// LastRobot is the robot built by the transition that produced this
	// state, NoRobot when that minute built nothing (or at the root).
	LastRobot Material
	// LastMaterials are the materials of the previous minute before
	// production was added.
	LastMaterials Materials[int]
}

// NewState returns the starting state: one ore robot, nothing in stock.
func NewState(minutes int) State {
	return State{
		Robots:    Materials[int]{Ore: 1},
		Remaining: minutes,
		LastRobot: NoRobot,
	}
}

// CanAfford reports whether the current stock pays for r.
func (s State) CanAfford(r Robot) bool {
	return Covers(s.Materials, r.Costs)
}

// Next advances one minute. A nil robot builds nothing. The order is fixed:
// pay for the robot, let the existing robots mine, then commission the new
// robot, so it only starts mining in the following minute. Next reports
// false when the robot is not affordable.
func (s State) Next(r *Robot) (State, bool) {
	next := s
	next.LastRobot = NoRobot
	if r != nil {
		if !s.CanAfford(*r) {
			return State{}, false
		}
		next.Materials = Sub(next.Materials, r.Costs)
		next.LastRobot = r.Material
	}
	next.LastMaterials = next.Materials
	next.Materials = Add(next.Materials, s.Robots)
	next.Remaining--
	next.Elapsed++
	if r != nil {
		next.Robots = next.Robots.With(r.Material, next.Robots.Get(r.Material)+1)
	}
	return next, true
}

// Waited reports whether the transition into s built nothing.
func (s State) Waited() bool {
	return s.Elapsed > 0 && s.LastRobot == NoRobot
}

// IdleGeodes is the geode count reached by never building again. It is
// always achievable and so a lower bound for the state.
func (s State) IdleGeodes() int {
	return s.Materials.Geode + s.Robots.Geode*s.Remaining
}
