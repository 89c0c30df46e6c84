package charts

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// PricePoint — одна точка истории цены токена
type PricePoint struct {
	Time  time.Time
	Close float64
}

// ChartGenerator генерирует графики цены токена
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// ParseOHLCV вытаскивает точки цены из ответа Vybe API. Форма ответа не
// гарантирована, поэтому каждая строка проверяется вручную и непонятные
// строки просто пропускаются.
func ParseOHLCV(payload any) []PricePoint {
	rows, _ := payload.([]any)
	if rows == nil {
		if m, ok := payload.(map[string]any); ok {
			rows, _ = m["data"].([]any)
		}
	}

	points := make([]PricePoint, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := asFloat(firstOf(row, "time", "timeBucketStart", "blockTime"))
		if !ok {
			continue
		}
		closePrice, ok := asFloat(firstOf(row, "close", "c"))
		if !ok {
			continue
		}
		points = append(points, PricePoint{
			Time:  time.Unix(int64(ts), 0).UTC(),
			Close: closePrice,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points
}

// GeneratePriceChart строит PNG-график цены закрытия.
// Возвращает nil, если точек меньше двух: рисовать нечего.
func (g *ChartGenerator) GeneratePriceChart(title string, points []PricePoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Time
		yValues[i] = p.Close
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s price, USD", title),
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.4f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render price chart: %w", err)
	}
	return buf.Bytes(), nil
}

func firstOf(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v
		}
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
