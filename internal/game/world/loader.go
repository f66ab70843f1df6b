package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlMapFile is the top-level YAML structure for map files.
type yamlMapFile struct {
	Map yamlMap `yaml:"map"`
}

type yamlMap struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Pool  string   `yaml:"pool"`
	Boss  string   `yaml:"boss"`
	Start bool     `yaml:"start"`
	Grid  []string `yaml:"grid"`
	Links []Link   `yaml:"links"`
	Lore  []Lore   `yaml:"lore"`
}

// LoadMapFromFile reads and validates a single map YAML file.
func LoadMapFromFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file %s: %w", path, err)
	}
	return LoadMapFromBytes(data)
}

// LoadMapFromBytes parses and validates a map from YAML bytes.
//
// Postcondition: Returns a validated Map or a non-nil error.
func LoadMapFromBytes(data []byte) (*Map, error) {
	var file yamlMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing map YAML: %w", err)
	}
	ym := file.Map
	m := &Map{
		ID:    ym.ID,
		Name:  ym.Name,
		Pool:  ym.Pool,
		Boss:  ym.Boss,
		Start: ym.Start,
		Grid:  make([]string, len(ym.Grid)),
		Links: ym.Links,
		Lore:  ym.Lore,
	}
	for i, row := range ym.Grid {
		m.Grid[i] = strings.ReplaceAll(row, " ", "")
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating map: %w", err)
	}
	return m, nil
}

// LoadMapsFromDir loads all YAML files in a directory as maps.
//
// Postcondition: Returns all validated maps or the first error encountered.
func LoadMapsFromDir(dir string) ([]*Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading map directory %s: %w", dir, err)
	}

	var maps []*Map
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		m, err := LoadMapFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading map from %s: %w", name, err)
		}
		maps = append(maps, m)
	}

	if len(maps) == 0 {
		return nil, fmt.Errorf("no map files found in %s", dir)
	}
	return maps, nil
}
