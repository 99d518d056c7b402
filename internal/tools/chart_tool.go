package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

const defaultChartName = "plot.png"

// PlotChartTool renders a line chart of one CSV column over another and
// writes it as a PNG under the output directory.
type PlotChartTool struct {
	DataDir   string
	OutputDir string
}

func (t PlotChartTool) Name() string {
	return "plot_chart"
}

func (t PlotChartTool) Description() string {
	return "Plot column y against column x from a CSV dataset and save the chart as a PNG"
}

func (t PlotChartTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file": map[string]any{
				"type":        "string",
				"description": "Path to the CSV file, relative to the data directory",
			},
			"x": map[string]any{
				"type":        "string",
				"description": "Name of the column to use for the X-axis",
			},
			"y": map[string]any{
				"type":        "string",
				"description": "Name of the numeric column to use for the Y-axis",
			},
			"out": map[string]any{
				"type":        "string",
				"description": "Output filename relative to the output directory (default plot.png)",
			},
		},
		"required": []string{"file", "x", "y"},
	}
}

func (t PlotChartTool) Execute(_ context.Context, args map[string]any) (*ToolResult, error) {
	fileArg, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	xName, err := stringArg(args, "x")
	if err != nil {
		return nil, err
	}
	yName, err := stringArg(args, "y")
	if err != nil {
		return nil, err
	}
	outArg, err := optionalStringArg(args, "out", defaultChartName)
	if err != nil {
		return nil, err
	}

	dataPath, err := resolveConfinedPath(t.DataDir, fileArg)
	if err != nil {
		return nil, err
	}
	outPath, err := resolveConfinedPath(t.OutputDir, outArg)
	if err != nil {
		return nil, err
	}

	tbl, err := loadTable(dataPath)
	if err != nil {
		return nil, err
	}
	xCells, ok := tbl.column(xName)
	if !ok {
		return nil, fmt.Errorf("column %q not found in %s", xName, fileArg)
	}
	yCells, ok := tbl.column(yName)
	if !ok {
		return nil, fmt.Errorf("column %q not found in %s", yName, fileArg)
	}

	xs, ys, err := chartSeries(xName, yName, xCells, yCells)
	if err != nil {
		return nil, err
	}

	graph := chart.Chart{
		Width:  800,
		Height: 500,
		XAxis:  chart.XAxis{Name: xName},
		YAxis:  chart.YAxis{Name: yName},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: xs, YValues: ys},
		},
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return &ToolResult{Output: fmt.Sprintf("Saved plot to %s", outPath)}, nil
}

// chartSeries builds aligned point slices, skipping rows with a missing cell
// on either axis. Y must be numeric; a non-numeric X degrades to row order.
func chartSeries(xName, yName string, xCells, yCells []string) ([]float64, []float64, error) {
	_, xNumeric := numericColumn(xCells)

	var xs, ys []float64
	for i := range yCells {
		if yCells[i] == "" || xCells[i] == "" {
			continue
		}
		y, err := strconv.ParseFloat(yCells[i], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q is not numeric: value %q", yName, yCells[i])
		}
		x := float64(len(xs))
		if xNumeric {
			x, _ = strconv.ParseFloat(xCells[i], 64)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(ys) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 data points to plot %q over %q", yName, xName)
	}
	return xs, ys, nil
}
