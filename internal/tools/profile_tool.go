package tools

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// ProfileTableTool summarizes a CSV file: per-column counts and cardinality,
// plus descriptive statistics for numeric columns.
type ProfileTableTool struct {
	DataDir     string
	OutputLimit int
}

func (t ProfileTableTool) Name() string {
	return "profile_table"
}

func (t ProfileTableTool) Description() string {
	return "Generate a statistical profile (summary statistics) of a CSV dataset"
}

func (t ProfileTableTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file": map[string]any{
				"type":        "string",
				"description": "Path to the CSV file, relative to the data directory",
			},
		},
		"required": []string{"file"},
	}
}

func (t ProfileTableTool) Execute(_ context.Context, args map[string]any) (*ToolResult, error) {
	fileArg, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	path, err := resolveConfinedPath(t.DataDir, fileArg)
	if err != nil {
		return nil, err
	}

	tbl, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "file: %s\n", fileArg)
	fmt.Fprintf(&b, "rows: %d, columns: %d\n", tbl.rows(), len(tbl.columns))
	for i, col := range tbl.columns {
		b.WriteString(describeColumn(col, tbl.values[i]))
	}
	return TruncateOutput(b.String(), t.OutputLimit), nil
}

func describeColumn(name string, cells []string) string {
	count := 0
	missing := 0
	unique := make(map[string]struct{})
	for _, cell := range cells {
		if cell == "" {
			missing++
			continue
		}
		count++
		unique[cell] = struct{}{}
	}

	if nums, ok := numericColumn(cells); ok {
		mean, std := meanStd(nums)
		min, max := minMax(nums)
		return fmt.Sprintf("column %q (numeric): count=%d missing=%d mean=%s std=%s min=%s max=%s\n",
			name, count, missing, formatStat(mean), formatStat(std), formatStat(min), formatStat(max))
	}
	return fmt.Sprintf("column %q (text): count=%d missing=%d unique=%d\n", name, count, missing, len(unique))
}

func meanStd(nums []float64) (float64, float64) {
	var sum float64
	for _, v := range nums {
		sum += v
	}
	mean := sum / float64(len(nums))
	if len(nums) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range nums {
		d := v - mean
		sq += d * d
	}
	// Sample standard deviation, matching common describe() conventions.
	return mean, math.Sqrt(sq / float64(len(nums)-1))
}

func minMax(nums []float64) (float64, float64) {
	min, max := nums[0], nums[0]
	for _, v := range nums[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
