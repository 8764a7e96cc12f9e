package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/joseph-ayodele/file-analyzer/internal/textstats"
)

// ChartFile is the file name of the top-words chart inside the charts directory.
const ChartFile = "word_chart.png"

// WordChart renders a bar chart of the given word counts to a PNG at path.
// It returns false without writing anything when words is empty.
func WordChart(words []textstats.WordCount, path string) (bool, error) {
	if len(words) == 0 {
		return false, nil
	}

	bars := make([]chart.Value, 0, len(words))
	maxCount := 0
	for _, w := range words {
		bars = append(bars, chart.Value{Label: w.Word, Value: float64(w.Count)})
		if w.Count > maxCount {
			maxCount = w.Count
		}
	}

	graph := chart.BarChart{
		Title: "Top 5 Words",
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			// fixed floor so equal counts still give a non-empty range
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("create chart: %w", err)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close chart: %w", err)
	}
	return true, nil
}
