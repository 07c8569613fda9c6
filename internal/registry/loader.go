package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"crudd/internal/schema"
)

// LoadDir scans a directory for resource definition files (*.yaml, *.yml,
// *.json), parses each into a resource descriptor, and validates the set.
// The resource name comes from the `name` field inside the file, not from the
// file name. Subdirectories are not descended into.
func LoadDir(dir string) ([]schema.Resource, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var resources []schema.Resource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		res, err := loadFile(filepath.Join(abs, name), ext)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		resources = append(resources, res)
	}
	validated, err := schema.ValidateSet(resources)
	if err != nil {
		return nil, err
	}
	return validated, nil
}

func loadFile(path, ext string) (schema.Resource, error) {
	var res schema.Resource
	b, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &res); err != nil {
			return res, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &res); err != nil {
			return res, fmt.Errorf("parse json: %w", err)
		}
	default:
		return res, fmt.Errorf("unsupported definition extension: %s", ext)
	}
	return res, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/schemas
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
