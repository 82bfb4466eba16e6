package memory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// LoadManifest parses a dependency manifest from root, trying Cargo.toml,
// package.json, then pyproject.toml in that order (spec.md §3). Returns nil
// if none are present or parseable.
func LoadManifest(root string) *DependencyManifest {
	if m := loadCargoToml(filepath.Join(root, "Cargo.toml")); m != nil {
		return m
	}
	if m := loadPackageJSON(filepath.Join(root, "package.json")); m != nil {
		return m
	}
	if m := loadPyprojectToml(filepath.Join(root, "pyproject.toml")); m != nil {
		return m
	}
	return nil
}

func loadCargoToml(path string) *DependencyManifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
		BuildDeps       map[string]any `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return &DependencyManifest{
		Runtime: toEntries(doc.Dependencies),
		Dev:     toEntries(doc.DevDependencies),
		Build:   toEntries(doc.BuildDeps),
	}
}

func loadPackageJSON(path string) *DependencyManifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	m := &DependencyManifest{}
	for name, version := range doc.Dependencies {
		m.Runtime = append(m.Runtime, DependencyEntry{Name: name, Version: version})
	}
	for name, version := range doc.DevDependencies {
		m.Dev = append(m.Dev, DependencyEntry{Name: name, Version: version})
	}
	return m
}

func loadPyprojectToml(path string) *DependencyManifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	m := &DependencyManifest{}
	for _, spec := range doc.Project.Dependencies {
		m.Runtime = append(m.Runtime, DependencyEntry{Name: spec})
	}
	m.Runtime = append(m.Runtime, toEntries(doc.Tool.Poetry.Dependencies)...)
	m.Dev = append(m.Dev, toEntries(doc.Tool.Poetry.DevDependencies)...)
	if len(m.Runtime) == 0 && len(m.Dev) == 0 {
		return nil
	}
	return m
}

func toEntries(m map[string]any) []DependencyEntry {
	var out []DependencyEntry
	for name, v := range m {
		version := ""
		switch val := v.(type) {
		case string:
			version = val
		case map[string]any:
			if vv, ok := val["version"].(string); ok {
				version = vv
			}
		}
		out = append(out, DependencyEntry{Name: name, Version: version})
	}
	return out
}
