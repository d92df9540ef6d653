package main

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoBlueprints is returned when the input holds no "Blueprint N:" header.
	ErrNoBlueprints = errors.New("no blueprints in input")
	// ErrUnparseableRecipe is returned for a recipe sentence that does not
	// match "Each <material> robot costs <n> <material> [and ...]".
	ErrUnparseableRecipe = errors.New("unparseable recipe")
	// ErrUnknownMaterial is returned for a material name outside the four
	// known ones.
	ErrUnknownMaterial = errors.New("unknown material")
)

// parser holds the compiled patterns for one parse.
type parser struct {
	header *regexp.Regexp
	robot  *regexp.Regexp
	cost   *regexp.Regexp
}

func newParser() *parser {
	return &parser{
		header: regexp.MustCompile(`Blueprint\s+(\d+)\s*:`),
		robot:  regexp.MustCompile(`^Each\s+(\w+)\s+robot\s+costs\s+(.+)$`),
		cost:   regexp.MustCompile(`^(\d+)\s+(\w+)$`),
	}
}

// ParseBlueprints reads blueprints in the puzzle's text format. A blueprint
// may span several lines; everything between one "Blueprint N:" header and
// the next belongs to it.
func ParseBlueprints(r io.Reader) ([]*Blueprint, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read blueprints: %w", err)
	}
	return newParser().parse(string(raw))
}

// ParseBlueprintsString is ParseBlueprints for in-memory input.
func ParseBlueprintsString(s string) ([]*Blueprint, error) {
	return newParser().parse(s)
}

func (p *parser) parse(text string) ([]*Blueprint, error) {
	headers := p.header.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil, ErrNoBlueprints
	}

	blueprints := make([]*Blueprint, 0, len(headers))
	for i, h := range headers {
		id, err := strconv.Atoi(text[h[2]:h[3]])
		if err != nil {
			return nil, fmt.Errorf("blueprint id %q: %w", text[h[2]:h[3]], err)
		}
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		robots, err := p.parseRecipes(text[h[1]:end])
		if err != nil {
			return nil, fmt.Errorf("blueprint %d: %w", id, err)
		}
		blueprints = append(blueprints, NewBlueprint(id, robots...))
	}
	return blueprints, nil
}

func (p *parser) parseRecipes(body string) ([]Robot, error) {
	var robots []Robot
	for _, sentence := range strings.Split(body, ".") {
		sentence = strings.Join(strings.Fields(sentence), " ")
		if sentence == "" {
			continue
		}
		r, err := p.parseRobot(sentence)
		if err != nil {
			return nil, err
		}
		robots = append(robots, r)
	}
	return robots, nil
}

func (p *parser) parseRobot(sentence string) (Robot, error) {
	m := p.robot.FindStringSubmatch(sentence)
	if m == nil {
		return Robot{}, fmt.Errorf("%w: %q", ErrUnparseableRecipe, sentence)
	}
	kind, err := parseMaterial(m[1])
	if err != nil {
		return Robot{}, err
	}

	r := Robot{Material: kind}
	for _, part := range strings.Split(m[2], " and ") {
		c := p.cost.FindStringSubmatch(strings.TrimSpace(part))
		if c == nil {
			return Robot{}, fmt.Errorf("%w: %q", ErrUnparseableRecipe, sentence)
		}
		n, err := strconv.Atoi(c[1])
		if err != nil {
			return Robot{}, fmt.Errorf("%w: %q", ErrUnparseableRecipe, sentence)
		}
		mat, err := parseMaterial(c[2])
		if err != nil {
			return Robot{}, err
		}
		r.Costs = r.Costs.With(mat, r.Costs.Get(mat)+n)
	}
	return r, nil
}
