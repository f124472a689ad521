package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/internal/cache"
	"github.com/quartzlab/whisker/pkg/config"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

// dataExtensions are the file types whisker can load.
var dataExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// collectFiles expands the given paths into a sorted list of dataset files.
// Directories contribute their data files, non-recursively.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if dataExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// loadConfig loads configuration from --config or the standard locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// resolvePolicy picks the policy from the --policy flag, falling back to
// the config file.
func resolvePolicy(c *cli.Context, cfg *config.Config) (quartiles.Policy, error) {
	if p := c.String("policy"); p != "" {
		return quartiles.ParsePolicy(p)
	}
	return cfg.Policy()
}

// newCache builds the result cache, honoring the global --no-cache flag.
func newCache(c *cli.Context, cfg *config.Config) (*cache.Cache, error) {
	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, enabled)
}

// formatFloat renders a float with the shortest exact representation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
