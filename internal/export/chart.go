package export

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const chartTitle = "Расходы по подпискам по периодичности"

// Chart renders spend per period as a PNG bar chart.
func Chart(byPeriod []subscription.PeriodSum) ([]byte, error) {
	const op = "export.Chart"

	if len(byPeriod) == 0 {
		return nil, ErrEmpty
	}

	bars := make([]chart.Value, 0, len(byPeriod))
	top := 0.0
	for _, p := range byPeriod {
		v := p.Total.InexactFloat64()
		if v > top {
			top = v
		}
		bars = append(bars, chart.Value{Label: p.Period.Label(), Value: v})
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      chartTitle,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1024,
		Height:     512,
		BarWidth:   80,
		YAxis: chart.YAxis{
			Name:  "Сумма (₽)",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
