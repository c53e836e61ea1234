package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidNameMap is returned for a rename pair that is not "old=new".
var ErrInvalidNameMap = errors.New("invalid name map")

// ParseNameMap parses "alice=travis,bob=david" (commas or whitespace between
// pairs). An empty string yields an empty mapping.
func ParseNameMap(list string) (map[string]string, error) {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	return ParseNamePairs(fields)
}

// ParseNamePairs parses a list of "old=new" pairs.
func ParseNamePairs(pairs []string) (map[string]string, error) {
	mapping := make(map[string]string, len(pairs))
	for _, p := range pairs {
		oldName, newName, ok := strings.Cut(p, "=")
		oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
		if !ok || oldName == "" || newName == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNameMap, p)
		}
		mapping[oldName] = newName
	}
	return mapping, nil
}

// LoadNameMapFile reads a YAML document of old: new pairs.
func LoadNameMapFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read name map file %s: %w", path, err)
	}
	var mapping map[string]string
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidNameMap, path, err)
	}
	for oldName, newName := range mapping {
		if oldName == "" || newName == "" {
			return nil, fmt.Errorf("%w: empty name in %s", ErrInvalidNameMap, path)
		}
	}
	if mapping == nil {
		mapping = map[string]string{}
	}
	return mapping, nil
}
