package main

// PruneReason says which rule rejected a branch.
type PruneReason int

const (
	Admitted PruneReason = iota
	PrunedHorizon
	PrunedSaturated
	PrunedDeferred
	PrunedBound

	numPruneReasons
)

func (r PruneReason) String() string {
	switch r {
	case Admitted:
		return "admitted"
	case PrunedHorizon:
		return "horizon"
	case PrunedSaturated:
		return "saturated"
	case PrunedDeferred:
		return "deferred"
	case PrunedBound:
		return "bound"
	}
	return "unknown"
}

// admit applies the per-robot rules, in order, to building r from s.
func (p PruneConfig) admit(bp *Blueprint, s State, r Robot) PruneReason {
	if p.Horizon && tooLate(s.Remaining, r.Material) {
		return PrunedHorizon
	}
	if p.Saturation && r.Material != Geode && s.Robots.Get(r.Material) >= bp.MaxCosts.Get(r.Material) {
		return PrunedSaturated
	}
	if p.Deferred && s.Waited() && Covers(s.LastMaterials, r.Costs) {
		// Affordable a minute ago and skipped: building it now is dominated by
		// having built it then.
		return PrunedDeferred
	}
	return Admitted
}

// tooLate reports whether a robot of kind m built with remaining minutes left
// can no longer pay off. A robot mines from the minute after it is built, and
// the mined material still has to be spent on something that mines geodes.
func tooLate(remaining int, m Material) bool {
	switch {
	case remaining <= 1:
		return true
	case remaining == 2:
		return m != Geode
	case remaining == 3:
		return m == Clay
	}
	return false
}

// geodeLeadTime is the earliest minute, counted from s, at which a geode
// robot could possibly be built. Obsidian has to exist before a geode robot
// and clay before an obsidian robot; each step up the chain costs one minute
// to build and one to mine.
func geodeLeadTime(bp *Blueprint, robots Materials[int]) int {
	geode, _ := bp.Recipe(Geode)
	obsidian, _ := bp.Recipe(Obsidian)
	switch {
	case robots.Geode > 0, robots.Obsidian > 0, geode.Costs.Obsidian == 0:
		return 0
	case robots.Clay > 0, obsidian.Costs.Clay == 0:
		return 2
	}
	return 4
}

// upperBound is an optimistic geode count for s: every robot keeps mining and
// a new geode robot is built every minute from the lead time on. A geode
// robot built k minutes from now yields Remaining-1-k geodes.
func upperBound(bp *Blueprint, s State) int {
	bound := s.IdleGeodes()
	if n := s.Remaining - 1 - geodeLeadTime(bp, s.Robots); n > 0 {
		bound += n * (n + 1) / 2
	}
	return bound
}
