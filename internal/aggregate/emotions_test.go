package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionSlices(t *testing.T) {
	slices := EmotionSlices(map[string]int{"joy": 2, "Joy": 1, "fear": 1, "sadness": 0, "": 4, "mystery": 2})

	require.Len(t, slices, 3)
	assert.Equal(t, "joy", slices[0].Emotion)
	assert.Equal(t, 3, slices[0].Count)
	assert.InDelta(t, 50.0, slices[0].Percentage, 1e-9)
	assert.Equal(t, 0.0, slices[0].StartAngle)
	assert.InDelta(t, 180.0, slices[0].EndAngle, 1e-9)
	assert.Equal(t, EmotionColors["joy"], slices[0].Color)

	assert.Equal(t, "mystery", slices[1].Emotion)
	assert.Equal(t, DefaultEmotionColor, slices[1].Color)
	assert.InDelta(t, slices[0].EndAngle, slices[1].StartAngle, 1e-9)

	assert.InDelta(t, 360.0, slices[2].EndAngle, 1e-9)

	total := 0.0
	for _, s := range slices {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestEmotionSlices_Empty(t *testing.T) {
	assert.Nil(t, EmotionSlices(nil))
	assert.Nil(t, EmotionSlices(map[string]int{"joy": 0}))
}

func TestCountEmotions(t *testing.T) {
	got := CountEmotions([]string{"joy", "fear", "joy", ""})

	assert.Equal(t, map[string]int{"joy": 2, "fear": 1}, got)
}
