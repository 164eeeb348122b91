// Package config parses PopShop rule documents — a single YAML file or a
// directory of them — into a rule.List.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"popshop/apperr"
	mslogger "popshop/logger"
	"popshop/rule"
)

// Load reads the given path (a single file, or a directory of .yaml/.yml
// files) and returns the freshly built rule list.
//
// Directory loads enumerate direct children only (non-recursive), sorted
// ascending by filename for deterministic ordering across reloads. A parse
// failure on one file in a directory load is logged and skipped, not fatal;
// if zero files load successfully and zero rules result, Load fails with
// EmptyConfiguration.
func Load(path string) (*rule.List, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "cannot stat config path %q: %v", path, err)
	}

	if info.IsDir() {
		return loadDir(path)
	}
	return loadFile(path)
}

func loadFile(path string) (*rule.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "cannot read config file %q: %v", path, err)
	}
	rules, err := ParseDocument(data, path)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, apperr.New(apperr.EmptyConfiguration, "config file %q produced zero rules", path)
	}
	return &rule.List{Rules: rules}, nil
}

func loadDir(dir string) (*rule.List, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.New(apperr.InvalidConfiguration, "cannot read config directory %q: %v", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []*rule.Rule
	loadedAny := false
	for _, name := range names {
		full := filepath.Join(dir, name)
		data, err := os.ReadFile(full)
		if err != nil {
			mslogger.LogWarn(fmt.Sprintf("config: skipping %s: %v", full, err))
			continue
		}
		rules, err := ParseDocument(data, full)
		if err != nil {
			mslogger.LogWarn(fmt.Sprintf("config: skipping %s: %v", full, err))
			continue
		}
		loadedAny = true
		all = append(all, rules...)
	}

	if !loadedAny && len(all) == 0 {
		return nil, apperr.New(apperr.EmptyConfiguration, "directory %q contains no loadable rule files", dir)
	}

	return &rule.List{Rules: all}, nil
}
