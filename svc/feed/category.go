package feed

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryMap maps catalog categories to Google product categories. Keys
// are matched case-insensitively.
//
//	frenos: "Vehicles & Parts > Vehicle Parts & Accessories > Motor Vehicle Braking"
//	filtros: "888"
type CategoryMap map[string]string

// ParseCategoryMap decodes a YAML mapping.
func ParseCategoryMap(data []byte) (CategoryMap, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrInvalidCategoryMap, err)
	}
	cm := make(CategoryMap, len(raw))
	for k, v := range raw {
		cm[normalizeCategory(k)] = strings.TrimSpace(v)
	}
	return cm, nil
}

// LoadCategoryMap reads a YAML mapping from path. An empty path yields an
// empty map.
func LoadCategoryMap(path string) (CategoryMap, error) {
	if path == "" {
		return CategoryMap{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCategoryMap, err)
	}
	return ParseCategoryMap(data)
}

// Lookup returns the Google category for a catalog category, or "".
func (cm CategoryMap) Lookup(category string) string {
	return cm[normalizeCategory(category)]
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
