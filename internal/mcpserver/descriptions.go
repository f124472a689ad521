package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to read the results.

func describeSummarize() string {
	return `Computes five-number box-plot summaries (fences, quartiles, median) for numeric series in CSV, TSV, JSON, or YAML files.

USE WHEN:
- Getting a quick statistical picture of a dataset before deeper analysis
- Comparing the spread of several measurement series
- Preparing values for a box-and-whisker plot

INTERPRETING RESULTS:
- Values are ordered: lower_fence <= lower <= median <= upper <= upper_fence
- policy "tukey": quartiles by linear interpolation, fences at 1.5x IQR beyond the quartiles
- policy "real": textbook quartiles, fences equal the sample extrema
- policy "fair": textbook quartiles with Tukey fences clamped to the extrema
- iqr is the interquartile range (upper - lower)
- outlier_count is the number of points strictly outside the fences

METRICS RETURNED:
- Per-series: count, box values, iqr, min, max, mean, std_dev, skewness, outliers
- duplicate_of names an earlier series with byte-identical values
- Summary: total files, series, values, outliers, duplicates`
}

func describeCompare() string {
	return `Computes the five-number summary of each series under all three interpolation policies side by side.

USE WHEN:
- Choosing which quartile policy fits a dataset
- Explaining why two tools report different quartiles for the same data
- Checking how sensitive the fences are to the interpolation method

INTERPRETING RESULTS:
- Policies differ most on small samples; they converge as the sample grows
- "tukey" fences can fall outside the observed data range
- "real" fences are always the sample min and max
- "fair" keeps the median and quartiles of "real" but never reports a fence beyond the data

METRICS RETURNED:
- Per-series, per-policy: the five box values and the iqr`
}

func describeOutliers() string {
	return `Lists the data points that fall strictly outside the box-plot fences.

USE WHEN:
- Hunting anomalous measurements in benchmark or telemetry data
- Deciding whether a dataset needs cleaning before aggregation
- Validating that a spike in a chart is a real outlier and not a quartile artifact

INTERPRETING RESULTS:
- Indices refer to positions in the original input order, starting at 0
- Under the "real" policy nothing is ever an outlier; use "tukey" or "fair"
- A point exactly on a fence is not an outlier

METRICS RETURNED:
- Per-series: outlier indices, outlier values, the fences used`
}
