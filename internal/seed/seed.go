// Package seed loads the dataset the content store is initialized from.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saaj-family/familyhub/internal/models"
)

//go:embed seed.yaml
var embedded []byte

// Default returns the dataset bundled with the binary.
func Default() (models.Dataset, error) {
	return Parse(embedded)
}

// Load reads a dataset from path, or returns the bundled dataset when path is empty.
func Load(path string) (models.Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return models.Dataset{}, fmt.Errorf("seed: reading %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a YAML (or JSON) dataset document.
func Parse(data []byte) (models.Dataset, error) {
	var ds models.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("parsing dataset: %w", err)
	}
	if ds.MealPlans == nil {
		ds.MealPlans = make(map[string]models.MealPlanEntry)
	}
	return ds, nil
}
