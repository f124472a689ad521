package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/internal/dataset"
	"github.com/quartzlab/whisker/internal/output"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

func outliersCmd() *cli.Command {
	return &cli.Command{
		Name:      "outliers",
		Usage:     "List data points outside the box-plot fences",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "policy",
				Aliases: []string{"p"},
				Usage:   "Quartile policy: tukey, real, or fair",
			},
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "Restrict analysis to the named series",
			},
		},
		Action: runOutliersCmd,
	}
}

// outlierRow is one flagged data point for JSON output.
type outlierRow struct {
	Series     string  `json:"series"`
	Source     string  `json:"source"`
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}

func runOutliersCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	policy, err := resolvePolicy(c, cfg)
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

	var results []outlierRow
	for _, path := range files {
		ds, err := dataset.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		if len(columns) > 0 {
			ds = ds.Filter(columns)
		}
		for _, series := range ds.Series {
			q, err := quartiles.Compute(policy, series.Values)
			if err != nil {
				return fmt.Errorf("series %q in %s: %w", series.Name, path, err)
			}
			for _, idx := range quartiles.Outliers(series.Values, q) {
				results = append(results, outlierRow{
					Series:     series.Name,
					Source:     path,
					Index:      idx,
					Value:      series.Values[idx],
					LowerFence: q.LowerFence(),
					UpperFence: q.UpperFence(),
				})
			}
		}
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(results) == 0 {
		formatter.Success("No outliers found (%s policy)", policy)
		return nil
	}

	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Series,
			truncate(r.Source, 40),
			fmt.Sprintf("%d", r.Index),
			formatFloat(r.Value),
			formatFloat(r.LowerFence),
			formatFloat(r.UpperFence),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Outliers (%s)", policy),
		[]string{"Series", "File", "Index", "Value", "Lower Fence", "Upper Fence"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(results))},
		results,
	)

	return formatter.Output(table)
}
