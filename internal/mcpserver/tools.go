package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/quartzlab/whisker/internal/analyzer"
	"github.com/quartzlab/whisker/internal/dataset"
	"github.com/quartzlab/whisker/internal/output"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

// SummaryInput is the base input for all whisker tools.
type SummaryInput struct {
	Files  []string `json:"files" jsonschema:"Dataset files to analyze (CSV, TSV, JSON, or YAML)."`
	Policy string   `json:"policy,omitempty" jsonschema:"Interpolation policy: tukey (default), real, or fair."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// SummarizeDatasetInput adds summarize-specific options.
type SummarizeDatasetInput struct {
	SummaryInput
	Columns []string `json:"columns,omitempty" jsonschema:"Restrict analysis to the named series."`
}

// CompareInput is the input for the policy comparison tool.
type CompareInput struct {
	SummaryInput
}

// OutliersInput is the input for the outlier detection tool.
type OutliersInput struct {
	SummaryInput
}

// policyBox is one policy's view of a series in a comparison.
type policyBox struct {
	Policy     string  `json:"policy"`
	LowerFence float64 `json:"lower_fence"`
	Lower      float64 `json:"lower"`
	Median     float64 `json:"median"`
	Upper      float64 `json:"upper"`
	UpperFence float64 `json:"upper_fence"`
	IQR        float64 `json:"iqr"`
}

type seriesComparison struct {
	Name     string      `json:"name"`
	Source   string      `json:"source"`
	Count    int         `json:"count"`
	Policies []policyBox `json:"policies"`
}

type seriesOutliers struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	Policy     string    `json:"policy"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
}

// Helper functions

func getFormat(input SummaryInput) output.Format {
	if input.Format == "json" {
		return output.FormatJSON
	}
	return output.FormatTOON
}

func getPolicy(input SummaryInput) (quartiles.Policy, error) {
	return quartiles.ParsePolicy(input.Policy)
}

func formatOutput(data any, format output.Format) (string, error) {
	if format == output.FormatJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func handleSummarize(ctx context.Context, req *mcp.CallToolRequest, input SummarizeDatasetInput) (*mcp.CallToolResult, any, error) {
	if len(input.Files) == 0 {
		return toolError("no input files given")
	}
	policy, err := getPolicy(input.SummaryInput)
	if err != nil {
		return toolError(err.Error())
	}

	opts := []analyzer.Option{}
	if len(input.Columns) > 0 {
		opts = append(opts, analyzer.WithColumns(input.Columns))
	}

	analysis, errs := analyzer.New(policy, opts...).AnalyzeFiles(input.Files, nil)
	if errs != nil && len(analysis.Files) == 0 {
		return toolError(errs.Error())
	}

	return toolResult(analysis, getFormat(input.SummaryInput))
}

func handleCompare(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, any, error) {
	if len(input.Files) == 0 {
		return toolError("no input files given")
	}

	var comparisons []seriesComparison
	for _, path := range input.Files {
		ds, err := dataset.Load(path)
		if err != nil {
			return toolError(err.Error())
		}
		for _, series := range ds.Series {
			cmp := seriesComparison{
				Name:   series.Name,
				Source: path,
				Count:  len(series.Values),
			}
			for _, policy := range quartiles.Policies {
				q, err := quartiles.Compute(policy, series.Values)
				if err != nil {
					return toolError(err.Error())
				}
				cmp.Policies = append(cmp.Policies, policyBox{
					Policy:     string(policy),
					LowerFence: q.LowerFence(),
					Lower:      q.Lower(),
					Median:     q.Median(),
					Upper:      q.Upper(),
					UpperFence: q.UpperFence(),
					IQR:        q.IQR(),
				})
			}
			comparisons = append(comparisons, cmp)
		}
	}

	return toolResult(comparisons, getFormat(input.SummaryInput))
}

func handleOutliers(ctx context.Context, req *mcp.CallToolRequest, input OutliersInput) (*mcp.CallToolResult, any, error) {
	if len(input.Files) == 0 {
		return toolError("no input files given")
	}
	policy, err := getPolicy(input.SummaryInput)
	if err != nil {
		return toolError(err.Error())
	}

	var results []seriesOutliers
	for _, path := range input.Files {
		ds, err := dataset.Load(path)
		if err != nil {
			return toolError(err.Error())
		}
		for _, series := range ds.Series {
			q, err := quartiles.Compute(policy, series.Values)
			if err != nil {
				return toolError(err.Error())
			}
			indices := quartiles.Outliers(series.Values, q)
			values := make([]float64, 0, len(indices))
			for _, idx := range indices {
				values = append(values, series.Values[idx])
			}
			results = append(results, seriesOutliers{
				Name:       series.Name,
				Source:     path,
				Policy:     string(policy),
				LowerFence: q.LowerFence(),
				UpperFence: q.UpperFence(),
				Indices:    indices,
				Values:     values,
			})
		}
	}

	return toolResult(results, getFormat(input.SummaryInput))
}
