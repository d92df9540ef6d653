package main

import (
	"fmt"
	"strings"
)

// Robot is a recipe: the material the robot mines and what it costs to build.
type Robot struct {
	Material Material
	Costs    Materials[int]
}

func (r Robot) String() string {
	var parts []string
	for _, m := range [4]Material{Ore, Clay, Obsidian, Geode} {
		if c := r.Costs.Get(m); c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, m))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing")
	}
	return fmt.Sprintf("Each %s robot costs %s.", r.Material, strings.Join(parts, " and "))
}

// Blueprint is one puzzle instance: a recipe per material plus the largest
// amount of each material any recipe asks for.
type Blueprint struct {
	ID     int
	Robots Materials[Robot]
	// MaxCosts bounds the production rate worth having for each material:
	// only one robot is built per minute, so producing more than the most
	// expensive recipe needs is wasted.
	MaxCosts Materials[int]

	buildable []Robot // defined recipes, highest tier first
}

// NewBlueprint builds a Blueprint from parsed recipes. A material with no
// recipe contributes zero cost and is never offered as a build. When a
// material appears twice the later recipe wins.
func NewBlueprint(id int, robots ...Robot) *Blueprint {
	bp := &Blueprint{ID: id}
	bp.Robots = Map(bp.Robots, func(Robot) Robot { return Robot{Material: NoRobot} })
	for _, r := range robots {
		if r.Material < Ore || r.Material > Geode {
			continue
		}
		bp.Robots = bp.Robots.With(r.Material, r)
	}
	for _, m := range materialOrder {
		r := bp.Robots.Get(m)
		if r.Material == NoRobot {
			continue
		}
		bp.MaxCosts = Max(bp.MaxCosts, r.Costs)
		bp.buildable = append(bp.buildable, r)
	}
	return bp
}

// Recipe returns the recipe for robots mining m.
func (b *Blueprint) Recipe(m Material) (Robot, bool) {
	r := b.Robots.Get(m)
	return r, r.Material != NoRobot
}

// Buildable returns the defined recipes, highest tier first. The slice is
// shared; callers must not modify it.
func (b *Blueprint) Buildable() []Robot {
	return b.buildable
}

func (b *Blueprint) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blueprint %d:", b.ID)
	for _, m := range [4]Material{Ore, Clay, Obsidian, Geode} {
		if r, ok := b.Recipe(m); ok {
			sb.WriteByte(' ')
			sb.WriteString(r.String())
		}
	}
	return sb.String()
}
