package tools

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPlotChart_WritesPNG(t *testing.T) {
	dataDir := t.TempDir()
	outputDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,revenue\n1,100\n2,150\n3,130\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: outputDir}
	res, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "revenue",
	})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}

	wantPath := filepath.Join(outputDir, "plot.png")
	if !strings.Contains(res.Output, "Saved plot to "+wantPath) {
		t.Fatalf("unexpected output: %q", res.Output)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatalf("expected PNG output, got leading bytes %v", data[:4])
	}
}

func TestPlotChart_CustomOutputName(t *testing.T) {
	dataDir := t.TempDir()
	outputDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,revenue\n1,100\n2,150\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: outputDir}
	res, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "revenue",
		"out":  "revenue_by_month.png",
	})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(res.Output, "revenue_by_month.png") {
		t.Fatalf("unexpected output: %q", res.Output)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "revenue_by_month.png")); err != nil {
		t.Fatalf("expected chart file: %v", err)
	}
}

func TestPlotChart_TextXAxisDegradesToRowOrder(t *testing.T) {
	dataDir := t.TempDir()
	outputDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,revenue\njan,100\nfeb,150\nmar,130\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: outputDir}
	_, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "revenue",
	})
	if err != nil {
		t.Fatalf("plot with text x axis should work: %v", err)
	}
}

func TestPlotChart_NonNumericYErrors(t *testing.T) {
	dataDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,region\n1,north\n2,south\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: t.TempDir()}
	_, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "region",
	})
	if err == nil || !strings.Contains(err.Error(), "not numeric") {
		t.Fatalf("expected non-numeric y error, got %v", err)
	}
}

func TestPlotChart_UnknownColumnErrors(t *testing.T) {
	dataDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,revenue\n1,100\n2,150\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: t.TempDir()}
	_, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "profit",
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected unknown column error, got %v", err)
	}
}

func TestPlotChart_RejectsEscapingOutputPath(t *testing.T) {
	dataDir := t.TempDir()
	writeCSV(t, dataDir, "sales.csv", "month,revenue\n1,100\n2,150\n")

	tool := PlotChartTool{DataDir: dataDir, OutputDir: t.TempDir()}
	_, err := tool.Execute(context.Background(), map[string]any{
		"file": "sales.csv",
		"x":    "month",
		"y":    "revenue",
		"out":  "../evil.png",
	})
	if err == nil {
		t.Fatalf("expected escaping output path to be rejected")
	}
}
