package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOHLCV(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"data": []any{
			map[string]any{"time": float64(1700086400), "close": "1.25"},
			map[string]any{"time": float64(1700000000), "close": float64(1.5)},
			map[string]any{"close": float64(2.0)},       // нет времени
			map[string]any{"time": float64(1700172800)}, // нет цены
			"garbage",
		},
	}

	points := ParseOHLCV(payload)
	require.Len(t, points, 2)
	// Точки отсортированы по времени
	assert.True(t, points[0].Time.Before(points[1].Time))
	assert.Equal(t, 1.5, points[0].Close)
	assert.Equal(t, 1.25, points[1].Close)
}

func TestParseOHLCV_BareList(t *testing.T) {
	t.Parallel()

	payload := []any{
		map[string]any{"timeBucketStart": float64(1700000000), "c": "3.0"},
	}

	points := ParseOHLCV(payload)
	require.Len(t, points, 1)
	assert.Equal(t, 3.0, points[0].Close)
}

func TestParseOHLCV_UnexpectedShapes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseOHLCV(nil))
	assert.Empty(t, ParseOHLCV("nope"))
	assert.Empty(t, ParseOHLCV(map[string]any{"data": "nope"}))
}

func TestGeneratePriceChart(t *testing.T) {
	t.Parallel()

	g := NewChartGenerator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []PricePoint{
		{Time: base, Close: 1.0},
		{Time: base.AddDate(0, 0, 1), Close: 1.2},
		{Time: base.AddDate(0, 0, 2), Close: 0.9},
	}

	png, err := g.GeneratePriceChart("SOL", points)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestGeneratePriceChart_TooFewPoints(t *testing.T) {
	t.Parallel()

	g := NewChartGenerator()

	png, err := g.GeneratePriceChart("SOL", nil)
	require.NoError(t, err)
	assert.Nil(t, png)

	png, err = g.GeneratePriceChart("SOL", []PricePoint{{Time: time.Now(), Close: 1}})
	require.NoError(t, err)
	assert.Nil(t, png)
}
