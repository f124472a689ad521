package models

import "testing"

func TestBoxValues(t *testing.T) {
	s := SeriesSummary{
		LowerFence: -9,
		Lower:      20.25,
		Median:     37.5,
		Upper:      39.75,
		UpperFence: 69,
	}

	want := [5]float64{-9, 20.25, 37.5, 39.75, 69}
	if got := s.BoxValues(); got != want {
		t.Errorf("BoxValues() = %v, want %v", got, want)
	}
}

func TestRecalculate(t *testing.T) {
	a := SummaryAnalysis{
		Files: []FileSummary{
			{
				Path: "a.csv",
				Series: []SeriesSummary{
					{Count: 6, OutlierCount: 0},
					{Count: 8, OutlierCount: 2},
				},
			},
			{
				Path: "b.csv",
				Series: []SeriesSummary{
					{Count: 3, OutlierCount: 1, DuplicateOf: "a.csv:v"},
				},
			},
		},
	}

	a.Recalculate()

	if a.Summary.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", a.Summary.TotalFiles)
	}
	if a.Summary.TotalSeries != 3 {
		t.Errorf("TotalSeries = %d, want 3", a.Summary.TotalSeries)
	}
	if a.Summary.TotalValues != 17 {
		t.Errorf("TotalValues = %d, want 17", a.Summary.TotalValues)
	}
	if a.Summary.TotalOutliers != 3 {
		t.Errorf("TotalOutliers = %d, want 3", a.Summary.TotalOutliers)
	}
	if a.Summary.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", a.Summary.Duplicates)
	}
}
