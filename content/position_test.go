package content

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampKeepsValuesInRange(t *testing.T) {
	inputs := []float64{-1e9, -50, -0.1, 0, 0.4, 0.5, 1, 1.9, 2, 2.1, 50, 99.9, 100, 100.1, 1e9, math.Inf(1), math.Inf(-1), math.NaN()}
	for _, x := range inputs {
		for _, s := range inputs {
			got := ImagePosition{X: x, Y: x, Scale: s}.Clamp()
			assert.GreaterOrEqual(t, got.X, MinPercent)
			assert.LessOrEqual(t, got.X, MaxPercent)
			assert.GreaterOrEqual(t, got.Y, MinPercent)
			assert.LessOrEqual(t, got.Y, MaxPercent)
			assert.GreaterOrEqual(t, got.Scale, MinScale)
			assert.LessOrEqual(t, got.Scale, MaxScale)
			assert.Equal(t, got, got.Clamp(), "clamp must be idempotent")
		}
	}
}

func TestClampLeavesInRangeValuesAlone(t *testing.T) {
	p := ImagePosition{X: 12.5, Y: 87, Scale: 1.35}
	assert.Equal(t, p, p.Clamp())
}

func TestClampScenario(t *testing.T) {
	got := ImagePosition{X: -10, Y: 140, Scale: 3}.Clamp()
	assert.Equal(t, ImagePosition{X: 0, Y: 100, Scale: 2}, got)
}

func TestUnmarshalPositionFillsMissingComponents(t *testing.T) {
	var p ImagePosition
	require.NoError(t, json.Unmarshal([]byte(`{"x":10}`), &p))
	assert.Equal(t, ImagePosition{X: 10, Y: 50, Scale: 1}, p)
}

func TestUnmarshalPositionClamps(t *testing.T) {
	var p ImagePosition
	require.NoError(t, json.Unmarshal([]byte(`{"x":-5,"y":250,"scale":0.1}`), &p))
	assert.Equal(t, ImagePosition{X: 0, Y: 100, Scale: 0.5}, p)
}

func TestUnmarshalPositionRejectsWrongShape(t *testing.T) {
	var p ImagePosition
	assert.Error(t, json.Unmarshal([]byte(`"center"`), &p))
}
