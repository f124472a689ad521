package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/internal/analyzer"
	"github.com/quartzlab/whisker/internal/output"
	"github.com/quartzlab/whisker/internal/progress"
)

func summaryCmd() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Aliases:   []string{"sum"},
		Usage:     "Compute five-number summaries for dataset files",
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
		Action: runSummaryCmd,
	}
}

func runSummaryCmd(c *cli.Context) error {
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

	resultCache, err := newCache(c, cfg)
	if err != nil {
		return err
	}

	columns := c.StringSlice("columns")
	if len(columns) == 0 {
		columns = cfg.Input.Columns
	}

	opts := []analyzer.Option{
		analyzer.WithCache(resultCache),
		analyzer.WithMaxOutliers(cfg.Analysis.MaxOutliers),
	}
	if len(columns) > 0 {
		opts = append(opts, analyzer.WithColumns(columns))
	}

	tracker := progress.NewTracker("Summarizing...", len(files))
	analysis, errs := analyzer.New(policy, opts...).AnalyzeFiles(files, tracker.Tick)
	tracker.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, file := range analysis.Files {
		for _, s := range file.Series {
			name := s.Name
			if s.DuplicateOf != "" {
				name += " (dup)"
			}
			outliers := fmt.Sprintf("%d", s.OutlierCount)
			if s.OutlierCount > 0 && formatter.Colored() {
				outliers = color.RedString("%d", s.OutlierCount)
			}
			rows = append(rows, []string{
				name,
				truncate(file.Path, 40),
				fmt.Sprintf("%d", s.Count),
				formatFloat(s.LowerFence),
				formatFloat(s.Lower),
				formatFloat(s.Median),
				formatFloat(s.Upper),
				formatFloat(s.UpperFence),
				formatFloat(s.Mean),
				formatFloat(s.StdDev),
				outliers,
			})
		}
	}

	table := output.NewTable(
		fmt.Sprintf("Summary (%s)", analysis.Policy),
		[]string{"Series", "File", "N", "Lower Fence", "Q1", "Median", "Q3", "Upper Fence", "Mean", "StdDev", "Outliers"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Series: %d", analysis.Summary.TotalSeries),
			fmt.Sprintf("Values: %d", analysis.Summary.TotalValues),
			fmt.Sprintf("Outliers: %d", analysis.Summary.TotalOutliers),
			fmt.Sprintf("Duplicates: %d", analysis.Summary.Duplicates),
		},
		analysis,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if errs != nil {
		if c.Bool("verbose") {
			for _, e := range errs.Errors {
				formatter.Warning("%s", e.Error())
			}
		}
		if len(analysis.Files) == 0 {
			return errs
		}
		formatter.Warning("%d of %d files could not be processed", len(errs.Errors), len(files))
	}

	return nil
}
