package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlueprintsJSON(t *testing.T) {
	data, err := os.ReadFile("testdata/example.json")
	require.NoError(t, err)

	bps, err := ParseBlueprintsJSON(data)
	require.NoError(t, err)
	require.Len(t, bps, 2)
	assert.Equal(t, exampleBlueprint(), bps[0])
	assert.Equal(t, secondExampleBlueprint(), bps[1])
}

func TestParseBlueprintsJSONMissingRecipes(t *testing.T) {
	bps, err := ParseBlueprintsJSON([]byte(`{"blueprints":[{"id":9,"robots":{"geode":{"ore":2}}}]}`))
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, 9, bps[0].ID)
	assert.Len(t, bps[0].Buildable(), 1)
	assert.Equal(t, Materials[int]{Ore: 2}, bps[0].MaxCosts)
}

func TestParseBlueprintsJSONInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed":        `{"blueprints":[`,
		"not an object":    `[1,2,3]`,
		"no blueprints":    `{"blueprints":[]}`,
		"missing id":       `{"blueprints":[{"robots":{}}]}`,
		"zero id":          `{"blueprints":[{"id":0,"robots":{}}]}`,
		"unknown robot":    `{"blueprints":[{"id":1,"robots":{"diamond":{"ore":1}}}]}`,
		"unknown material": `{"blueprints":[{"id":1,"robots":{"ore":{"gold":1}}}]}`,
		"negative cost":    `{"blueprints":[{"id":1,"robots":{"ore":{"ore":-1}}}]}`,
		"fractional cost":  `{"blueprints":[{"id":1,"robots":{"ore":{"ore":1.5}}}]}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBlueprintsJSON([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidJSON)
		})
	}
}

func TestLoadBlueprints(t *testing.T) {
	fromText, err := LoadBlueprints("testdata/example.txt")
	require.NoError(t, err)
	fromJSON, err := LoadBlueprints("testdata/example.json")
	require.NoError(t, err)
	assert.Equal(t, fromText, fromJSON)

	_, err = LoadBlueprints("testdata/missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.JSON")
	require.NoError(t, os.WriteFile(bad, []byte(exampleInput), 0o644))
	_, err = LoadBlueprints(bad)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadFromStrings(t *testing.T) {
	data, err := os.ReadFile("testdata/example.json")
	require.NoError(t, err)

	fromJSON, err := loadFromStrings("\n  " + string(data))
	require.NoError(t, err)
	fromText, err := loadFromStrings(exampleInput)
	require.NoError(t, err)
	assert.Equal(t, fromText, fromJSON)
}
