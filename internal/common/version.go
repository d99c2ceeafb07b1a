package common

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Build metadata injected via ldflags:
//
//	-X github.com/hansonchs/portfolio-tracker/internal/common.Version=...
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the semantic version string.
func GetVersion() string { return Version }

// GetBuild returns the build timestamp.
func GetBuild() string { return Build }

// GetGitCommit returns the short git commit hash.
func GetGitCommit() string { return GitCommit }

// LoadVersionFromFile reads a .version file ("key: value" lines, # comments)
// next to the binary. File values fill in only the fields ldflags left at
// their defaults, so a stamped binary always wins.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	f, err := os.Open(filepath.Join(filepath.Dir(exe), ".version"))
	if err != nil {
		return
	}
	defer f.Close()

	applyVersionFile(f)
}

// applyVersionFile parses the .version file contents into the build metadata
// variables, keeping any value ldflags already set.
func applyVersionFile(r io.Reader) {
	fallbacks := map[string]struct {
		target  *string
		missing string
	}{
		"version": {&Version, "dev"},
		"build":   {&Build, "unknown"},
		"commit":  {&GitCommit, "unknown"},
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fb, known := fallbacks[strings.TrimSpace(key)]
		if !known {
			continue
		}
		if *fb.target == fb.missing {
			*fb.target = strings.TrimSpace(val)
		}
	}
}
