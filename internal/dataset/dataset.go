// Package dataset loads numeric series from CSV, TSV, JSON, and YAML files.
package dataset

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Series is one named column of numeric values.
type Series struct {
	Name   string
	Values []float64
}

// Fingerprint returns a content hash of the series values, independent of
// the series name. Two series with identical values share a fingerprint.
func (s Series) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, v := range s.Values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Dataset is the parsed content of one input file.
type Dataset struct {
	Path   string
	Series []Series
}

// Load reads and parses a data file. The format is chosen by extension:
// .csv, .tsv, .json, .yaml/.yml. Every series must be non-empty and every
// value finite; anything else is a load error, never a silent default.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var series []Series
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		series, err = parseDelimited(data, ',')
	case ".tsv":
		series, err = parseDelimited(data, '\t')
	case ".json":
		series, err = parseJSON(data)
	case ".yaml", ".yml":
		series, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported data format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, s := range series {
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%s: series %q is empty", path, s.Name)
		}
		for i, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s: series %q value %d is not finite", path, s.Name, i)
			}
		}
	}

	return &Dataset{Path: path, Series: series}, nil
}

// Filter returns only the series whose names appear in columns. An empty
// columns list keeps everything.
func (d *Dataset) Filter(columns []string) *Dataset {
	if len(columns) == 0 {
		return d
	}
	keep := make(map[string]bool, len(columns))
	for _, c := range columns {
		keep[c] = true
	}
	out := &Dataset{Path: d.Path}
	for _, s := range d.Series {
		if keep[s.Name] {
			out.Series = append(out.Series, s)
		}
	}
	return out
}

// parseDelimited reads one series per column. If any cell in the first row
// fails to parse as a number, the row is treated as a header.
func parseDelimited(data []byte, delim rune) ([]Series, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no rows")
	}

	cols := len(records[0])
	names := make([]string, cols)
	start := 0
	if isHeader(records[0]) {
		for i, name := range records[0] {
			names[i] = strings.TrimSpace(name)
		}
		start = 1
	} else {
		for i := range names {
			names[i] = fmt.Sprintf("col%d", i+1)
		}
	}

	series := make([]Series, cols)
	for i := range series {
		series[i].Name = names[i]
	}
	for row := start; row < len(records); row++ {
		if len(records[row]) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", row+1, len(records[row]), cols)
		}
		for col, cell := range records[row] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue // missing value
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %q is not a number", row+1, names[col], cell)
			}
			series[col].Values = append(series[col].Values, v)
		}
	}
	return series, nil
}

func isHeader(row []string) bool {
	for _, cell := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return true
		}
	}
	return false
}

// parseJSON accepts either an object mapping series names to number arrays
// or a bare number array (one series named "values").
func parseJSON(data []byte) ([]Series, error) {
	var byName map[string][]float64
	if err := json.Unmarshal(data, &byName); err == nil {
		return sortedSeries(byName), nil
	}

	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("want an object of number arrays or a number array: %w", err)
	}
	return []Series{{Name: "values", Values: values}}, nil
}

// parseYAML accepts the same shapes as parseJSON.
func parseYAML(data []byte) ([]Series, error) {
	var byName map[string][]float64
	if err := yaml.Unmarshal(data, &byName); err == nil && byName != nil {
		return sortedSeries(byName), nil
	}

	var values []float64
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("want a mapping of number sequences or a number sequence: %w", err)
	}
	return []Series{{Name: "values", Values: values}}, nil
}

// sortedSeries flattens a name->values map into a deterministic order.
func sortedSeries(byName map[string][]float64) []Series {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]Series, 0, len(names))
	for _, name := range names {
		series = append(series, Series{Name: name, Values: byName[name]})
	}
	return series
}
