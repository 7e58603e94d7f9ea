package models

// CategoryRule is a user-defined override: any transaction whose lower-cased text
// contains TextPattern gets Category. At most one rule exists per TextPattern.
type CategoryRule struct {
	ID          string `json:"id" yaml:"id"`
	TextPattern string `json:"textPattern" yaml:"textPattern"`
	Category    string `json:"category" yaml:"category"`
}

// CategoryGroup is one entry of the keyword dictionary as stored in categories.yaml.
type CategoryGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryGroup `yaml:"categories"`
}
