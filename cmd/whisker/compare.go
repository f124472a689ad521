package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/internal/dataset"
	"github.com/quartzlab/whisker/internal/output"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

func compareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare the three quartile policies side by side",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "Restrict analysis to the named series",
			},
		},
		Action: runCompareCmd,
	}
}

// policyRow pairs a series with one policy's box values for JSON output.
type policyRow struct {
	Series     string  `json:"series"`
	Source     string  `json:"source"`
	Count      int     `json:"count"`
	Policy     string  `json:"policy"`
	LowerFence float64 `json:"lower_fence"`
	Lower      float64 `json:"lower"`
	Median     float64 `json:"median"`
	Upper      float64 `json:"upper"`
	UpperFence float64 `json:"upper_fence"`
	IQR        float64 `json:"iqr"`
}

func runCompareCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, err := collectFiles(getPaths(c))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No dataset files found")
		return nil
	}

	columns := c.StringSlice("columns")
	if len(columns) == 0 {
		columns = cfg.Input.Columns
	}

	var results []policyRow
	for _, path := range files {
		ds, err := dataset.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		if len(columns) > 0 {
			ds = ds.Filter(columns)
		}
		for _, series := range ds.Series {
			for _, policy := range quartiles.Policies {
				q, err := quartiles.Compute(policy, series.Values)
				if err != nil {
					return fmt.Errorf("series %q in %s: %w", series.Name, path, err)
				}
				results = append(results, policyRow{
					Series:     series.Name,
					Source:     path,
					Count:      len(series.Values),
					Policy:     string(policy),
					LowerFence: q.LowerFence(),
					Lower:      q.Lower(),
					Median:     q.Median(),
					Upper:      q.Upper(),
					UpperFence: q.UpperFence(),
					IQR:        q.IQR(),
				})
			}
		}
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Series,
			r.Policy,
			fmt.Sprintf("%d", r.Count),
			formatFloat(r.LowerFence),
			formatFloat(r.Lower),
			formatFloat(r.Median),
			formatFloat(r.Upper),
			formatFloat(r.UpperFence),
			formatFloat(r.IQR),
		})
	}

	table := output.NewTable(
		"Policy Comparison",
		[]string{"Series", "Policy", "N", "Lower Fence", "Q1", "Median", "Q3", "Upper Fence", "IQR"},
		rows,
		nil,
		results,
	)

	return formatter.Output(table)
}
