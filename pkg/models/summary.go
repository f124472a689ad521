package models

import "time"

// SeriesSummary is the five-number box-plot summary for one numeric series,
// plus the moment statistics the report shows alongside it.
type SeriesSummary struct {
	Name   string `json:"name"`
	Source string `json:"source"` // file the series was loaded from
	Count  int    `json:"count"`
	Policy string `json:"policy"`

	// Box-plot values in fixed order; lower_fence <= lower <= median <=
	// upper <= upper_fence.
	LowerFence float64 `json:"lower_fence"`
	Lower      float64 `json:"lower"`
	Median     float64 `json:"median"`
	Upper      float64 `json:"upper"`
	UpperFence float64 `json:"upper_fence"`
	IQR        float64 `json:"iqr"`

	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`

	// Outliers are indices into the original series of points outside the
	// fences, in ascending order.
	OutlierCount int      `json:"outlier_count"`
	Outliers     []uint32 `json:"outliers,omitempty"`

	// DuplicateOf names an earlier series in the same batch with identical
	// content, detected by fingerprint.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// BoxValues returns the five box-plot values in the order
// [lower_fence, lower, median, upper, upper_fence].
func (s *SeriesSummary) BoxValues() [5]float64 {
	return [5]float64{s.LowerFence, s.Lower, s.Median, s.Upper, s.UpperFence}
}

// FileSummary groups the series loaded from one input file.
type FileSummary struct {
	Path   string          `json:"path"`
	Series []SeriesSummary `json:"series"`
}

// SummaryAnalysis is the result of a batch summary run.
type SummaryAnalysis struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Policy      string          `json:"policy"`
	Files       []FileSummary   `json:"files"`
	Summary     AnalysisSummary `json:"summary"`
}

// AnalysisSummary provides aggregate statistics for a batch run.
type AnalysisSummary struct {
	TotalFiles    int `json:"total_files"`
	TotalSeries   int `json:"total_series"`
	TotalValues   int `json:"total_values"`
	TotalOutliers int `json:"total_outliers"`
	Duplicates    int `json:"duplicates"`
}

// Recalculate rebuilds the aggregate summary from the per-file results.
func (a *SummaryAnalysis) Recalculate() {
	s := AnalysisSummary{TotalFiles: len(a.Files)}
	for _, f := range a.Files {
		s.TotalSeries += len(f.Series)
		for _, sr := range f.Series {
			s.TotalValues += sr.Count
			s.TotalOutliers += sr.OutlierCount
			if sr.DuplicateOf != "" {
				s.Duplicates++
			}
		}
	}
	a.Summary = s
}
