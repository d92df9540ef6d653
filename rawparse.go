package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned for JSON input that is malformed or does not
// match the blueprint schema.
var ErrInvalidJSON = errors.New("invalid blueprint JSON")

//go:embed blueprints.schema.json
var blueprintSchemaSrc string

var blueprintSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("blueprints.schema.json", blueprintSchemaSrc)
})

// ParseBlueprintsJSON reads blueprints from a document shaped like
//
//	{"blueprints":[{"id":1,"robots":{"ore":{"ore":4},"geode":{"ore":2,"obsidian":7}}}]}
//
// Missing recipes and missing cost entries default to zero.
func ParseBlueprintsJSON(data []byte) ([]*Blueprint, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed document", ErrInvalidJSON)
	}
	if err := validateBlueprintJSON(data); err != nil {
		return nil, err
	}

	var (
		blueprints []*Blueprint
		parseErr   error
	)
	gjson.GetBytes(data, "blueprints").ForEach(func(_, item gjson.Result) bool {
		id := int(item.Get("id").Int())
		var robots []Robot
		item.Get("robots").ForEach(func(name, costs gjson.Result) bool {
			kind, err := parseMaterial(name.String())
			if err != nil {
				parseErr = fmt.Errorf("blueprint %d: %w", id, err)
				return false
			}
			r := Robot{Material: kind}
			costs.ForEach(func(mat, n gjson.Result) bool {
				m, err := parseMaterial(mat.String())
				if err != nil {
					parseErr = fmt.Errorf("blueprint %d: %w", id, err)
					return false
				}
				r.Costs = r.Costs.With(m, int(n.Int()))
				return true
			})
			robots = append(robots, r)
			return parseErr == nil
		})
		if parseErr != nil {
			return false
		}
		blueprints = append(blueprints, NewBlueprint(id, robots...))
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return blueprints, nil
}

func validateBlueprintJSON(data []byte) error {
	schema, err := blueprintSchema()
	if err != nil {
		return fmt.Errorf("compile blueprint schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// LoadBlueprints reads a blueprint file. Files ending in .json use the JSON
// format, anything else the puzzle text format.
func LoadBlueprints(path string) ([]*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bps []*Blueprint
	if strings.EqualFold(filepath.Ext(path), ".json") {
		bps, err = ParseBlueprintsJSON(data)
	} else {
		bps, err = ParseBlueprintsString(string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bps, nil
}

// loadFromStrings parses input that may be either format, sniffing JSON by
// its leading brace.
func loadFromStrings(input string) ([]*Blueprint, error) {
	if trimmed := strings.TrimSpace(input); strings.HasPrefix(trimmed, "{") {
		return ParseBlueprintsJSON([]byte(trimmed))
	}
	return ParseBlueprintsString(input)
}
