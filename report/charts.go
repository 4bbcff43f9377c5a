// Package report renders simulation results as HTML charts.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/netrixframework/kbandit/random"
	"github.com/netrixframework/kbandit/simulation"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DistributionSamples is the number of rewards drawn per arm for the reward distribution chart
const DistributionSamples = 2000

// RewardsChart plots the average reward over time, one series per epsilon
func RewardsChart(result *simulation.Result) *charts.Line {
	return seriesChart(
		result,
		"Average reward",
		"Average reward",
		func(c *simulation.ConfigResult) []float64 { return c.MeanReward },
		1,
	)
}

// OptimalChart plots the percentage of runs that picked the best arm over time
func OptimalChart(result *simulation.Result) *charts.Line {
	return seriesChart(
		result,
		"Optimal action",
		"% Optimal action",
		func(c *simulation.ConfigResult) []float64 { return c.OptimalAction },
		100,
	)
}

func seriesChart(result *simulation.Result, title, yName string, series func(*simulation.ConfigResult) []float64, scale float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d-armed testbed, %d runs", result.K, result.Runs),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Steps"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(makeRange(1, result.Timesteps))
	for _, c := range result.Configs {
		values := series(c)
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v * scale}
		}
		line.AddSeries(seriesName(c.Epsilon), data)
	}
	return line
}

// DistributionChart samples rewards around the true values of the most recent
// run of c and plots one box per arm.
func DistributionChart(c *simulation.ConfigResult, samples int, src random.Source) *charts.BoxPlot {
	boxes := make([]opts.BoxPlotData, len(c.TrueValues))
	limit := 0.0
	for arm, q := range c.TrueValues {
		rewards := make([]float64, samples)
		for i := range rewards {
			rewards[i] = src.Normal(q, c.RewardNoise)
		}
		sort.Float64s(rewards)
		boxes[arm] = opts.BoxPlotData{Value: fiveNumbers(rewards)}
		if samples > 0 {
			limit = math.Max(limit, math.Max(math.Abs(rewards[0]), math.Abs(rewards[samples-1])))
		}
	}
	limit = math.Ceil(limit)

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Reward distribution",
			Subtitle: seriesName(c.Epsilon),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Action"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reward", Min: -limit, Max: limit}),
	)
	box.SetXAxis(makeRange(1, len(c.TrueValues)))
	box.AddSeries("Reward", boxes)
	return box
}

// fiveNumbers returns min, lower quartile, median, upper quartile and max of sorted x
func fiveNumbers(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	return []float64{
		floats.Min(x),
		stat.Quantile(0.25, stat.Empirical, x, nil),
		stat.Quantile(0.5, stat.Empirical, x, nil),
		stat.Quantile(0.75, stat.Empirical, x, nil),
		floats.Max(x),
	}
}

// Renderer is anything go-echarts can render
type Renderer interface {
	Render(w io.Writer) error
}

// WriteFile renders chart into path
func WriteFile(path string, chart Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// WriteAll writes every chart of result into dir, creating it when missing,
// and returns the written paths.
func WriteAll(dir string, result *simulation.Result, src random.Source) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	files := map[string]Renderer{
		"rewards.html": RewardsChart(result),
		"optimal.html": OptimalChart(result),
	}
	for i, c := range result.Configs {
		files[fmt.Sprintf("distribution_%d.html", i)] = DistributionChart(c, DistributionSamples, src)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, files[name]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func seriesName(epsilon float64) string {
	return fmt.Sprintf("ε = %g", epsilon)
}

func makeRange(start, n int) []string {
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = fmt.Sprintf("%d", start+i)
	}
	return result
}
