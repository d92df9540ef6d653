package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScores(t *testing.T) {
	results := []Result{
		{BlueprintID: 1, Geodes: 9},
		{BlueprintID: 2, Geodes: 12},
	}
	assert.Equal(t, 24, QualityLevel(results[1]))
	assert.Equal(t, 33, TotalQuality(results))
	assert.Equal(t, 108, GeodeProduct(results))

	assert.Zero(t, TotalQuality(nil))
	assert.Equal(t, 1, GeodeProduct(nil))
	assert.Zero(t, GeodeProduct([]Result{{BlueprintID: 3}, {BlueprintID: 4, Geodes: 5}}))
}
