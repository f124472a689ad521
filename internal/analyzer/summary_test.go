package analyzer

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlab/whisker/internal/cache"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeFilesSingleSeries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latency.csv", "latency\n7\n15\n36\n39\n40\n41\n")

	a := New(quartiles.PolicyTukey)
	analysis, errs := a.AnalyzeFiles([]string{path}, nil)

	require.Nil(t, errs)
	require.Len(t, analysis.Files, 1)
	require.Len(t, analysis.Files[0].Series, 1)

	s := analysis.Files[0].Series[0]
	assert.Equal(t, "latency", s.Name)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, "tukey", s.Policy)
	assert.Equal(t, 37.5, s.Median)
	assert.Equal(t, 20.25, s.Lower)
	assert.Equal(t, 39.75, s.Upper)
	assert.Equal(t, -9.0, s.LowerFence)
	assert.Equal(t, 69.0, s.UpperFence)
	assert.Equal(t, 19.5, s.IQR)
	assert.Equal(t, 7.0, s.Min)
	assert.Equal(t, 41.0, s.Max)
	assert.InDelta(t, 29.666, s.Mean, 0.001)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Equal(t, 0, s.OutlierCount)

	assert.Equal(t, 1, analysis.Summary.TotalFiles)
	assert.Equal(t, 1, analysis.Summary.TotalSeries)
	assert.Equal(t, 6, analysis.Summary.TotalValues)
}

func TestAnalyzeFilesRealPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "v\n10\n20\n30\n")

	a := New(quartiles.PolicyReal)
	analysis, errs := a.AnalyzeFiles([]string{path}, nil)

	require.Nil(t, errs)
	s := analysis.Files[0].Series[0]
	assert.Equal(t, [5]float64{10, 10, 20, 30, 30}, s.BoxValues())
}

func TestAnalyzeFilesOutliers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "spiky.csv", "v\n41\n7\n15\n36\n39\n40\n100\n-80\n")

	a := New(quartiles.PolicyTukey)
	analysis, errs := a.AnalyzeFiles([]string{path}, nil)

	require.Nil(t, errs)
	s := analysis.Files[0].Series[0]
	assert.Equal(t, 2, s.OutlierCount)
	assert.Equal(t, []uint32{6, 7}, s.Outliers)
	assert.Equal(t, 2, analysis.Summary.TotalOutliers)
}

func TestAnalyzeFilesMaxOutliersCapsList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "spiky.csv", "v\n41\n7\n15\n36\n39\n40\n100\n-80\n")

	a := New(quartiles.PolicyTukey, WithMaxOutliers(1))
	analysis, errs := a.AnalyzeFiles([]string{path}, nil)

	require.Nil(t, errs)
	s := analysis.Files[0].Series[0]
	assert.Equal(t, 2, s.OutlierCount)
	assert.Len(t, s.Outliers, 1)
}

func TestAnalyzeFilesOrderedByPath(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.csv", "v\n1\n2\n3\n")
	a := writeFile(t, dir, "a.csv", "v\n4\n5\n6\n")
	c := writeFile(t, dir, "c.csv", "v\n7\n8\n9\n")

	analysis, errs := New(quartiles.PolicyTukey).AnalyzeFiles([]string{b, c, a}, nil)

	require.Nil(t, errs)
	require.Len(t, analysis.Files, 3)
	assert.Equal(t, a, analysis.Files[0].Path)
	assert.Equal(t, b, analysis.Files[1].Path)
	assert.Equal(t, c, analysis.Files[2].Path)
}

func TestAnalyzeFilesDuplicateDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "v\n10\n20\n30\n")
	b := writeFile(t, dir, "b.csv", "v\n10\n20\n30\n")

	analysis, errs := New(quartiles.PolicyTukey).AnalyzeFiles([]string{a, b}, nil)

	require.Nil(t, errs)
	assert.Empty(t, analysis.Files[0].Series[0].DuplicateOf)
	assert.Equal(t, a+":v", analysis.Files[1].Series[0].DuplicateOf)
	assert.Equal(t, 1, analysis.Summary.Duplicates)
}

func TestAnalyzeFilesColumnFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "multi.csv", "x,y\n1,10\n2,20\n3,30\n")

	analysis, errs := New(quartiles.PolicyTukey, WithColumns([]string{"y"})).AnalyzeFiles([]string{path}, nil)

	require.Nil(t, errs)
	require.Len(t, analysis.Files[0].Series, 1)
	assert.Equal(t, "y", analysis.Files[0].Series[0].Name)
	assert.Equal(t, 20.0, analysis.Files[0].Series[0].Median)
}

func TestAnalyzeFilesColumnFilterNoMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "multi.csv", "x,y\n1,10\n")

	_, errs := New(quartiles.PolicyTukey, WithColumns([]string{"z"})).AnalyzeFiles([]string{path}, nil)

	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "no series match")
}

func TestAnalyzeFilesCollectsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "v\n1\n2\n3\n")
	bad := filepath.Join(dir, "missing.csv")

	analysis, errs := New(quartiles.PolicyTukey).AnalyzeFiles([]string{good, bad}, nil)

	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	require.Len(t, analysis.Files, 1)
	assert.Equal(t, good, analysis.Files[0].Path)
}

func TestAnalyzeFilesProgress(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "v\n1\n2\n")
	b := writeFile(t, dir, "b.csv", "v\n3\n4\n")

	var ticks atomic.Int64
	_, errs := New(quartiles.PolicyTukey).AnalyzeFiles([]string{a, b}, func() {
		ticks.Add(1)
	})

	require.Nil(t, errs)
	assert.Equal(t, int64(2), ticks.Load())
}

func TestAnalyzeFilesCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "v\n10\n20\n30\n40\n")

	c, err := cache.New(filepath.Join(dir, "cache"), 24, true)
	require.NoError(t, err)

	a := New(quartiles.PolicyReal, WithCache(c))

	first, errs := a.AnalyzeFiles([]string{path}, nil)
	require.Nil(t, errs)

	second, errs := a.AnalyzeFiles([]string{path}, nil)
	require.Nil(t, errs)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, [5]float64{10, 12.5, 25, 37.5, 40}, second.Files[0].Series[0].BoxValues())
}

func TestAnalyzeFilesCacheInvalidatedByPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "v\n10\n20\n30\n")

	c, err := cache.New(filepath.Join(dir, "cache"), 24, true)
	require.NoError(t, err)

	tukey, errs := New(quartiles.PolicyTukey, WithCache(c)).AnalyzeFiles([]string{path}, nil)
	require.Nil(t, errs)

	textbook, errs := New(quartiles.PolicyReal, WithCache(c)).AnalyzeFiles([]string{path}, nil)
	require.Nil(t, errs)

	assert.NotEqual(t, tukey.Files[0].Series[0].BoxValues(), textbook.Files[0].Series[0].BoxValues())
}
