package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/pkg/config"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar.csv"},
			expected: []string{"/foo/bar.csv"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.json", "notes.txt", "c.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := collectFiles([]string{dir})
	if err != nil {
		t.Fatalf("collectFiles() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.yaml"),
	}
	if len(files) != len(want) {
		t.Fatalf("collectFiles() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("collectFiles()[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCollectFilesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("x\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := collectFiles([]string{path})
	if err != nil {
		t.Fatalf("collectFiles() error: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("collectFiles() = %v, want [%s]", files, path)
	}
}

func TestCollectFilesMissingPath(t *testing.T) {
	if _, err := collectFiles([]string{"/nonexistent/path"}); err == nil {
		t.Error("collectFiles() should error for missing path")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{37.5, "37.5"},
		{-9, "-9"},
		{20.25, "20.25"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.input); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly_ten", 11, "exactly_ten"},
		{"a_very_long_file_name.csv", 10, "a_very_..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

// TestGeneratedConfigLoads verifies the init command output round-trips
// through the config loader and its schema validation.
func TestGeneratedConfigLoads(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error: %v", err)
	}
	if !strings.Contains(content, "policy") {
		t.Errorf("generated config missing policy key:\n%s", content)
	}

	path := filepath.Join(t.TempDir(), "whisker.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config should load: %v", err)
	}
	if cfg.Analysis.Policy != "tukey" {
		t.Errorf("policy = %q, want tukey", cfg.Analysis.Policy)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
}

func newTestApp(cmd *cli.Command) *cli.App {
	return &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
			&cli.BoolFlag{Name: "no-cache"},
			&cli.BoolFlag{Name: "verbose"},
		},
		Commands: []*cli.Command{cmd},
	}
}

// TestSummaryCommandEndToEnd runs the summary command against a real file
// and checks the JSON output.
func TestSummaryCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "latency.csv")
	if err := os.WriteFile(dataPath, []byte("latency\n7\n15\n36\n39\n40\n41\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.json")

	app := newTestApp(summaryCmd())
	err := app.Run([]string{"whisker", "-f", "json", "-o", outPath, "--no-cache", "summary", dataPath})
	if err != nil {
		t.Fatalf("summary command error: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	var result struct {
		Policy string `json:"policy"`
		Files  []struct {
			Series []struct {
				Name   string  `json:"name"`
				Median float64 `json:"median"`
			} `json:"series"`
		} `json:"files"`
	}
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Unmarshal() error: %v\noutput:\n%s", err, string(content))
	}

	if result.Policy != "tukey" {
		t.Errorf("policy = %q, want tukey", result.Policy)
	}
	if len(result.Files) != 1 || len(result.Files[0].Series) != 1 {
		t.Fatalf("unexpected result shape: %+v", result)
	}
	if result.Files[0].Series[0].Median != 37.5 {
		t.Errorf("median = %v, want 37.5", result.Files[0].Series[0].Median)
	}
}

// TestOutliersCommandEndToEnd runs the outliers command on data with two
// points outside the fences.
func TestOutliersCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "spiky.csv")
	if err := os.WriteFile(dataPath, []byte("v\n41\n7\n15\n36\n39\n40\n100\n-80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.json")

	app := newTestApp(outliersCmd())
	err := app.Run([]string{"whisker", "-f", "json", "-o", outPath, "outliers", dataPath})
	if err != nil {
		t.Fatalf("outliers command error: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}

	var rows []outlierRow
	if err := json.Unmarshal(content, &rows); err != nil {
		t.Fatalf("Unmarshal() error: %v\noutput:\n%s", err, string(content))
	}
	if len(rows) != 2 {
		t.Fatalf("got %d outliers, want 2", len(rows))
	}
	if rows[0].Index != 6 || rows[0].Value != 100 {
		t.Errorf("first outlier = %+v, want index 6 value 100", rows[0])
	}
	if rows[1].Index != 7 || rows[1].Value != -80 {
		t.Errorf("second outlier = %+v, want index 7 value -80", rows[1])
	}
}

// TestCompareCommandEndToEnd checks that all three policies appear in the
// comparison output.
func TestCompareCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(dataPath, []byte("v\n10\n20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.json")

	app := newTestApp(compareCmd())
	err := app.Run([]string{"whisker", "-f", "json", "-o", outPath, "compare", dataPath})
	if err != nil {
		t.Fatalf("compare command error: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}

	var rows []policyRow
	if err := json.Unmarshal(content, &rows); err != nil {
		t.Fatalf("Unmarshal() error: %v\noutput:\n%s", err, string(content))
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (one per policy)", len(rows))
	}

	medians := map[string]float64{}
	for _, r := range rows {
		medians[r.Policy] = r.Median
	}
	if medians["tukey"] != 15 || medians["real"] != 15 || medians["fair"] != 15 {
		t.Errorf("medians = %v, want 15 under every policy", medians)
	}
}

// TestInitCommand checks that init writes a loadable config and refuses to
// overwrite without --force.
func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "whisker.toml")

	app := newTestApp(initCmd())
	if err := app.Run([]string{"whisker", "init", "--path", path}); err != nil {
		t.Fatalf("init command error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	err := app.Run([]string{"whisker", "init", "--path", path})
	if err == nil {
		t.Error("init should refuse to overwrite without --force")
	}

	if err := app.Run([]string{"whisker", "init", "--path", path, "--force"}); err != nil {
		t.Errorf("init --force error: %v", err)
	}
}
