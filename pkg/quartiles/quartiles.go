// Package quartiles computes five-number box-plot summaries
// (lower fence, lower quartile, median, upper quartile, upper fence)
// under three interpolation policies.
package quartiles

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Number covers every numeric kind a sample may hold. All computation is
// done in float64 regardless of the input type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

var (
	// ErrEmptySample is returned when a summary is requested for an
	// empty sample. There is no meaningful default to fall back to.
	ErrEmptySample = errors.New("quartiles: empty sample")

	// ErrIncomparable is returned when the sample contains a value that
	// cannot be totally ordered (NaN).
	ErrIncomparable = errors.New("quartiles: sample contains NaN")
)

// Quartiles is an immutable five-number summary. The zero value is not
// meaningful; construct one with New, Real, or Fair.
type Quartiles struct {
	lowerFence float64
	lower      float64
	median     float64
	upper      float64
	upperFence float64
}

// sortedSample copies the sample into a sorted float64 slice. The caller's
// slice is never mutated.
func sortedSample[T Number](sample []T) ([]float64, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	s := make([]float64, len(sample))
	for i, v := range sample {
		f := float64(v)
		if math.IsNaN(f) {
			return nil, ErrIncomparable
		}
		s[i] = f
	}
	sort.Float64s(s)
	return s, nil
}

// percentileOfSorted returns the value at percentile pct within the sorted
// non-empty slice s, linearly interpolating between neighbors. Only called
// with in-range percentiles by the policies; an out-of-range pct is a bug
// in this package.
func percentileOfSorted(s []float64, pct float64) float64 {
	if len(s) == 1 {
		return s[0]
	}
	if pct < 0 || pct > 100 {
		panic(fmt.Sprintf("quartiles: percentile %v out of range [0,100]", pct))
	}
	if pct == 100 {
		return s[len(s)-1]
	}
	rank := (pct / 100) * float64(len(s)-1)
	lower := math.Floor(rank)
	d := rank - lower
	n := int(lower)
	return s[n] + (s[n+1]-s[n])*d
}

// realQuartile returns the value at quartile position p in {0..4} of the
// sorted non-empty slice s, using the rank formula alpha = p(n+1)/4.
// Positions 0 and 4 resolve to the sample extrema.
func realQuartile(s []float64, p int) float64 {
	n := float64(len(s) + 1)
	alpha := float64(p) * n / 4
	k := math.Floor(alpha)
	frac := alpha - k
	i := int(k)
	if i == 0 {
		return s[0]
	}
	i--
	if i >= len(s)-1 {
		return s[len(s)-1]
	}
	return s[i] + frac*(s[i+1]-s[i])
}

// New computes a summary with linearly interpolated percentile quartiles
// (25th/50th/75th) and Tukey fences at ±1.5×IQR. The fences may extend
// beyond the data range.
func New[T Number](sample []T) (Quartiles, error) {
	s, err := sortedSample(sample)
	if err != nil {
		return Quartiles{}, err
	}
	lower := percentileOfSorted(s, 25)
	median := percentileOfSorted(s, 50)
	upper := percentileOfSorted(s, 75)
	iqr := upper - lower
	return Quartiles{
		lowerFence: lower - 1.5*iqr,
		lower:      lower,
		median:     median,
		upper:      upper,
		upperFence: upper + 1.5*iqr,
	}, nil
}

// Real computes a summary whose quartiles use the rank formula
// alpha = p(n+1)/4 and whose fences are the true sample extrema.
func Real[T Number](sample []T) (Quartiles, error) {
	s, err := sortedSample(sample)
	if err != nil {
		return Quartiles{}, err
	}
	return Quartiles{
		lowerFence: realQuartile(s, 0),
		lower:      realQuartile(s, 1),
		median:     realQuartile(s, 2),
		upper:      realQuartile(s, 3),
		upperFence: realQuartile(s, 4),
	}, nil
}

// Fair is a hybrid of New and Real: quartiles from the Real rank formula,
// Tukey fences clamped to the sample extrema. Whiskers never extend past
// the data but are pulled inward when the sample is tightly distributed.
func Fair[T Number](sample []T) (Quartiles, error) {
	s, err := sortedSample(sample)
	if err != nil {
		return Quartiles{}, err
	}
	lower := realQuartile(s, 1)
	median := realQuartile(s, 2)
	upper := realQuartile(s, 3)
	iqr := upper - lower
	return Quartiles{
		lowerFence: math.Max(lower-1.5*iqr, realQuartile(s, 0)),
		lower:      lower,
		median:     median,
		upper:      upper,
		upperFence: math.Min(upper+1.5*iqr, realQuartile(s, 4)),
	}, nil
}

// Values returns the summary as the fixed array
// [lower fence, lower quartile, median, upper quartile, upper fence],
// narrowed to float32 for plot positioning.
func (q Quartiles) Values() [5]float32 {
	return [5]float32{
		float32(q.lowerFence),
		float32(q.lower),
		float32(q.median),
		float32(q.upper),
		float32(q.upperFence),
	}
}

// Median returns the median in full precision.
func (q Quartiles) Median() float64 { return q.median }

// LowerFence returns the lower whisker bound.
func (q Quartiles) LowerFence() float64 { return q.lowerFence }

// Lower returns the lower (25th-percentile) quartile.
func (q Quartiles) Lower() float64 { return q.lower }

// Upper returns the upper (75th-percentile) quartile.
func (q Quartiles) Upper() float64 { return q.upper }

// UpperFence returns the upper whisker bound.
func (q Quartiles) UpperFence() float64 { return q.upperFence }

// IQR returns the interquartile range.
func (q Quartiles) IQR() float64 { return q.upper - q.lower }

// Outliers returns the indices (into the original, unsorted sample) of
// values strictly outside the fences. Under the Real policy the fences are
// the extrema, so the result is always empty.
func Outliers[T Number](sample []T, q Quartiles) []int {
	var out []int
	for i, v := range sample {
		f := float64(v)
		if f < q.lowerFence || f > q.upperFence {
			out = append(out, i)
		}
	}
	return out
}
