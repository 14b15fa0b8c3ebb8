package charts

import (
	"bytes"
	"fmt"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/ivanoskov/balance_bot/internal/service"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartGenerator генерирует графики балансов
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

var networkColors = []drawing.Color{chart.ColorBlue, chart.ColorCyan}

// GenerateBalanceChart создает столбчатую диаграмму балансов в порядке отчёта.
// Возвращает nil, если данных нет.
func (g *ChartGenerator) GenerateBalanceChart(results []model.BalanceResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, nil
	}

	colorByNetwork := make(map[string]drawing.Color)
	maxValue := 0.0
	bars := make([]chart.Value, 0, len(results))
	for i, result := range results {
		color, ok := colorByNetwork[result.Network]
		if !ok {
			color = networkColors[len(colorByNetwork)%len(networkColors)]
			colorByNetwork[result.Network] = color
		}
		if result.Balance > maxValue {
			maxValue = result.Balance
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("#%d %s", i+1, service.ShortAddress(result.Address)),
			Value: result.Balance,
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color,
				FontSize:    10,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	// у go-chart нулевой диапазон по Y - ошибка
	yMax := maxValue * 1.2
	if yMax <= 0 {
		yMax = 1
	}

	graph := chart.BarChart{
		Title: "Wallet balances",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    barChartWidth(len(bars)),
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return service.FormatAmount(f)
				}
				return ""
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render balance chart: %w", err)
	}

	return buffer.Bytes(), nil
}

func barChartWidth(bars int) int {
	width := 200 + bars*180
	if width < 800 {
		return 800
	}
	return width
}
