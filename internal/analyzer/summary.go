// Package analyzer computes five-number summaries for batches of dataset
// files, with caching and parallel loading.
package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/quartzlab/whisker/internal/cache"
	"github.com/quartzlab/whisker/internal/dataset"
	"github.com/quartzlab/whisker/internal/fileproc"
	"github.com/quartzlab/whisker/pkg/models"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

// Analyzer computes summaries for dataset files.
type Analyzer struct {
	policy      quartiles.Policy
	maxOutliers int
	columns     []string
	cache       *cache.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithColumns restricts analysis to the named series.
func WithColumns(columns []string) Option {
	return func(a *Analyzer) { a.columns = columns }
}

// WithCache enables result caching.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithMaxOutliers caps the number of outlier indices stored per series.
// The outlier count is always exact.
func WithMaxOutliers(n int) Option {
	return func(a *Analyzer) { a.maxOutliers = n }
}

// New creates an Analyzer for the given interpolation policy.
func New(policy quartiles.Policy, opts ...Option) *Analyzer {
	a := &Analyzer{policy: policy, maxOutliers: 20}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fileResult is the per-file unit of work, including the series
// fingerprints needed for cross-file duplicate detection. It is also the
// cache entry payload.
type fileResult struct {
	Summary      models.FileSummary `json:"summary"`
	Fingerprints []uint64           `json:"fingerprints"`
}

// AnalyzeFiles summarizes every series in the given files. Files are
// processed in parallel; results are ordered by path. Per-file errors do
// not abort the batch.
func (a *Analyzer) AnalyzeFiles(paths []string, onProgress fileproc.ProgressFunc) (*models.SummaryAnalysis, *fileproc.ProcessingErrors) {
	results, errs := fileproc.ForEachFileWithProgress(paths, a.analyzeFile, onProgress)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Summary.Path < results[j].Summary.Path
	})

	markDuplicates(results)

	analysis := &models.SummaryAnalysis{
		GeneratedAt: time.Now(),
		Policy:      string(a.policy),
		Files:       make([]models.FileSummary, 0, len(results)),
	}
	for _, r := range results {
		analysis.Files = append(analysis.Files, r.Summary)
	}
	analysis.Recalculate()

	return analysis, errs
}

// analyzeFile loads one file and summarizes each of its series, consulting
// the cache first.
func (a *Analyzer) analyzeFile(path string) (fileResult, error) {
	var contentHash string
	if a.cache != nil {
		hash, err := cache.HashFile(path)
		if err != nil {
			return fileResult{}, err
		}
		contentHash = hash

		if data, ok := a.cache.Get(a.cacheKey(path), contentHash); ok {
			var cached fileResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return fileResult{}, err
	}
	if len(a.columns) > 0 {
		ds = ds.Filter(a.columns)
		if len(ds.Series) == 0 {
			return fileResult{}, fmt.Errorf("no series match the requested columns")
		}
	}

	result := fileResult{
		Summary:      models.FileSummary{Path: path},
		Fingerprints: make([]uint64, 0, len(ds.Series)),
	}
	for _, series := range ds.Series {
		summary, err := a.summarize(series, path)
		if err != nil {
			return fileResult{}, fmt.Errorf("series %q: %w", series.Name, err)
		}
		result.Summary.Series = append(result.Summary.Series, summary)
		result.Fingerprints = append(result.Fingerprints, series.Fingerprint())
	}

	if a.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = a.cache.Set(a.cacheKey(path), contentHash, data)
		}
	}

	return result, nil
}

// summarize computes the five-number summary and moment statistics for one
// series.
func (a *Analyzer) summarize(series dataset.Series, source string) (models.SeriesSummary, error) {
	q, err := quartiles.Compute(a.policy, series.Values)
	if err != nil {
		return models.SeriesSummary{}, err
	}

	values := series.Values
	summary := models.SeriesSummary{
		Name:   series.Name,
		Source: source,
		Count:  len(values),
		Policy: string(a.policy),

		LowerFence: q.LowerFence(),
		Lower:      q.Lower(),
		Median:     q.Median(),
		Upper:      q.Upper(),
		UpperFence: q.UpperFence(),
		IQR:        q.IQR(),

		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
	}
	if len(values) > 1 {
		summary.StdDev = stat.StdDev(values, nil)
	}
	if len(values) > 2 {
		summary.Skewness = stat.Skew(values, nil)
	}

	outliers := roaring.New()
	for _, idx := range quartiles.Outliers(values, q) {
		outliers.Add(uint32(idx))
	}
	summary.OutlierCount = int(outliers.GetCardinality())
	if !outliers.IsEmpty() {
		indices := outliers.ToArray()
		if a.maxOutliers > 0 && len(indices) > a.maxOutliers {
			indices = indices[:a.maxOutliers]
		}
		summary.Outliers = indices
	}

	return summary, nil
}

// cacheKey scopes cached results by policy and column filter so changing
// either invalidates prior entries.
func (a *Analyzer) cacheKey(path string) string {
	return fmt.Sprintf("%s|%s|%v", path, a.policy, a.columns)
}

// markDuplicates flags series whose content fingerprint matches an earlier
// series in the batch. Results must already be sorted by path.
func markDuplicates(results []fileResult) {
	seen := make(map[uint64]string)
	for ri := range results {
		summary := &results[ri].Summary
		for si := range summary.Series {
			fp := results[ri].Fingerprints[si]
			ref := fmt.Sprintf("%s:%s", summary.Path, summary.Series[si].Name)
			if first, ok := seen[fp]; ok {
				summary.Series[si].DuplicateOf = first
			} else {
				// Cached entries may carry a flag from an earlier batch.
				summary.Series[si].DuplicateOf = ""
				seen[fp] = ref
			}
		}
	}
}
