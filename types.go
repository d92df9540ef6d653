package main

import (
	"fmt"
	"strings"
)

// Material identifies one of the four resources a robot can mine.
type Material int8

const (
	Ore Material = iota
	Clay
	Obsidian
	Geode

	// NoRobot marks "build nothing" wherever a Material names a robot choice.
	NoRobot Material = -1
)

// materialOrder lists materials from the highest tier down. The search expands
// children in this order so good answers surface early.
var materialOrder = [4]Material{Geode, Obsidian, Clay, Ore}

func (m Material) String() string {
	switch m {
	case Ore:
		return "ore"
	case Clay:
		return "clay"
	case Obsidian:
		return "obsidian"
	case Geode:
		return "geode"
	case NoRobot:
		return "none"
	}
	return fmt.Sprintf("Material(%d)", int8(m))
}

// glyph is the single-letter code used in trace output.
func (m Material) glyph() byte {
	switch m {
	case Ore:
		return 'O'
	case Clay:
		return 'C'
	case Obsidian:
		return 'B'
	case Geode:
		return 'G'
	}
	return '.'
}

func parseMaterial(s string) (Material, error) {
	switch s {
	case "ore":
		return Ore, nil
	case "clay":
		return Clay, nil
	case "obsidian":
		return Obsidian, nil
	case "geode":
		return Geode, nil
	}
	return NoRobot, fmt.Errorf("%w: %q", ErrUnknownMaterial, s)
}

// Materials holds one value per material. The field set is closed, so a struct
// replaces a map keyed by Material.
type Materials[T any] struct {
	Ore      T
	Clay     T
	Obsidian T
	Geode    T
}

// Number is the element constraint for the arithmetic helpers.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Get returns the component for m. NoRobot yields the zero value.
func (v Materials[T]) Get(m Material) T {
	switch m {
	case Ore:
		return v.Ore
	case Clay:
		return v.Clay
	case Obsidian:
		return v.Obsidian
	case Geode:
		return v.Geode
	}
	var zero T
	return zero
}

// With returns a copy of v with the component for m replaced.
func (v Materials[T]) With(m Material, x T) Materials[T] {
	switch m {
	case Ore:
		v.Ore = x
	case Clay:
		v.Clay = x
	case Obsidian:
		v.Obsidian = x
	case Geode:
		v.Geode = x
	}
	return v
}

func (v Materials[T]) String() string {
	return fmt.Sprintf("{ore:%v clay:%v obsidian:%v geode:%v}", v.Ore, v.Clay, v.Obsidian, v.Geode)
}

// Map applies f to every component.
func Map[T, U any](v Materials[T], f func(T) U) Materials[U] {
	return Materials[U]{
		Ore:      f(v.Ore),
		Clay:     f(v.Clay),
		Obsidian: f(v.Obsidian),
		Geode:    f(v.Geode),
	}
}

// Zip combines a and b component-wise.
func Zip[T, U, V any](a Materials[T], b Materials[U], f func(T, U) V) Materials[V] {
	return Materials[V]{
		Ore:      f(a.Ore, b.Ore),
		Clay:     f(a.Clay, b.Clay),
		Obsidian: f(a.Obsidian, b.Obsidian),
		Geode:    f(a.Geode, b.Geode),
	}
}

// All reports whether every component is true.
func All(v Materials[bool]) bool {
	return v.Ore && v.Clay && v.Obsidian && v.Geode
}

func Add[T Number](a, b Materials[T]) Materials[T] {
	return Zip(a, b, func(x, y T) T { return x + y })
}

// Sub subtracts b from a. Callers check Covers(a, b) first.
func Sub[T Number](a, b Materials[T]) Materials[T] {
	return Zip(a, b, func(x, y T) T { return x - y })
}

func Max[T Number](a, b Materials[T]) Materials[T] {
	return Zip(a, b, func(x, y T) T { return max(x, y) })
}

// Covers reports whether a dominates b in every component, i.e. a can pay for b.
func Covers[T Number](a, b Materials[T]) bool {
	return All(Zip(a, b, func(x, y T) bool { return x >= y }))
}

// Glyphs renders counts as repeated letters, e.g. two ore robots and a clay
// robot become "OOC".
func Glyphs[T Number](v Materials[T]) string {
	var b strings.Builder
	for _, m := range [4]Material{Ore, Clay, Obsidian, Geode} {
		for i := T(0); i < v.Get(m); i++ {
			b.WriteByte(m.glyph())
		}
	}
	return b.String()
}
