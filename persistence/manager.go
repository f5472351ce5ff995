// Package persistence saves and loads level records
// Geometry is never stored; a record regenerates its level deterministically
package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/depthgen/level"
)

var ErrNotFound = errors.New("persistence: level not found")

// Manager handles save/load for level records as YAML files
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the path for a named level file
func (m *Manager) FilePath(name string) string {
	return filepath.Join(m.basePath, name+".yaml")
}

// Exists checks if a level file exists
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.FilePath(name))
	return err == nil
}

// Save validates and writes a record to disk
func (m *Manager) Save(name string, data level.LevelData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return err
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal level %q: %w", name, err)
	}

	return os.WriteFile(m.FilePath(name), raw, 0644)
}

// Load reads a record from disk
func (m *Manager) Load(name string) (level.LevelData, error) {
	var data level.LevelData

	raw, err := os.ReadFile(m.FilePath(name))
	if errors.Is(err, os.ErrNotExist) {
		return data, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return data, err
	}

	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("unmarshal level %q: %w", name, err)
	}
	return data, data.Validate()
}

// List returns the saved level names in lexical order
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a level file
func (m *Manager) Delete(name string) error {
	err := os.Remove(m.FilePath(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}
