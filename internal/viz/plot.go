package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot renders a single series as a terminal line chart.
func Plot(series []float64, caption string, width, height int) string {
	if len(series) < 2 {
		return "not enough data to plot"
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series in one chart, one color per series,
// with a legend line naming them.
func PlotMany(series [][]float64, names []string, caption string, width, height int) string {
	if len(series) == 0 {
		return "not enough data to plot"
	}
	colors := []asciigraph.AnsiColor{
		asciigraph.Green,
		asciigraph.Red,
		asciigraph.Blue,
		asciigraph.Yellow,
		asciigraph.Magenta,
		asciigraph.Cyan,
	}
	used := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		used[i] = colors[i%len(colors)]
	}

	chart := asciigraph.PlotMany(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(used...),
	)

	var legend strings.Builder
	for i, name := range names {
		if i > 0 {
			legend.WriteString("   ")
		}
		fmt.Fprintf(&legend, "%s█\x1b[0m %s", used[i].String(), name)
	}
	return chart + "\n" + legend.String()
}
