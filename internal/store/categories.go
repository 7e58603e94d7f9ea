package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// CategoryStore loads the keyword dictionary from a categories.yaml file.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for the given categories file.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{CategoriesFile: categoriesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".budget-csv", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".budget-csv", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadCategories returns the ordered keyword groups of the categories file. An
// unset or missing file yields no groups, meaning the built-in dictionary applies.
func (s *CategoryStore) LoadCategories() ([]models.CategoryGroup, error) {
	if s.CategoriesFile == "" {
		return nil, nil
	}

	filePath, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Categories file not found, using built-in dictionary",
				logging.F(logging.FieldFile, s.CategoriesFile))
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	// "categories: [...]" first, then a bare list
	var categoriesConfig models.CategoriesConfig
	if err := yaml.Unmarshal(data, &categoriesConfig); err == nil && len(categoriesConfig.Categories) > 0 {
		return s.normalize(categoriesConfig.Categories, filePath), nil
	}

	var groups []models.CategoryGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	return s.normalize(groups, filePath), nil
}

func (s *CategoryStore) normalize(groups []models.CategoryGroup, filePath string) []models.CategoryGroup {
	out := make([]models.CategoryGroup, 0, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		keywords := make([]string, 0, len(g.Keywords))
		for _, k := range g.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		out = append(out, models.CategoryGroup{Name: g.Name, Keywords: keywords})
	}
	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(out)))
	return out
}
