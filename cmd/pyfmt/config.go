package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"pyfmt/internal/mode"
)

const pyprojectName = "pyproject.toml"

// projectConfig is the [tool.pyfmt] table of pyproject.toml.
type projectConfig struct {
	TargetVersion           []string `toml:"target-version"`
	Fast                    bool     `toml:"fast"`
	Jobs                    int      `toml:"jobs"`
	Cache                   *bool    `toml:"cache"`
	SkipStringNormalization bool     `toml:"skip-string-normalization"`
	Exclude                 string   `toml:"exclude"`
}

type pyproject struct {
	Tool struct {
		Pyfmt projectConfig `toml:"pyfmt"`
	} `toml:"tool"`
}

type loadedConfig struct {
	// Path is empty when no pyproject.toml with a [tool.pyfmt] table exists.
	Path    string
	Config  projectConfig
	Targets []mode.TargetVersion
	Exclude *regexp.Regexp
}

// findPyproject walks up from startDir to the first pyproject.toml.
func findPyproject(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, pyprojectName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig finds and decodes the nearest pyproject.toml. A file without a
// [tool.pyfmt] table yields the zero config.
func loadConfig(startDir string) (*loadedConfig, error) {
	path, ok, err := findPyproject(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &loadedConfig{}, nil
	}
	var doc pyproject
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("tool", "pyfmt") {
		return &loadedConfig{}, nil
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		for _, key := range undecoded {
			if len(key) > 1 && key[0] == "tool" && key[1] == "pyfmt" {
				return nil, fmt.Errorf("%s: unknown option %q", path, key.String())
			}
		}
	}
	cfg := &loadedConfig{Path: path, Config: doc.Tool.Pyfmt}
	if cfg.Targets, err = mode.ParseTargetVersions(cfg.Config.TargetVersion); err != nil {
		return nil, fmt.Errorf("%s: target-version: %w", path, err)
	}
	if cfg.Config.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative", path)
	}
	if cfg.Config.Exclude != "" {
		if cfg.Exclude, err = compileExclude(cfg.Config.Exclude); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// cacheEnabled reports the cache setting; absent means on.
func (c *loadedConfig) cacheEnabled() bool {
	return c.Config.Cache == nil || *c.Config.Cache
}

func compileExclude(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return re, nil
}
