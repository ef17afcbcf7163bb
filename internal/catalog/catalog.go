// Package catalog loads the seeded category/goal reference data and writes it
// to the database.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// GoalsPerCategory is how many goals a user picks from each category per week.
const GoalsPerCategory = 2

type GoalSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type CategorySeed struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Color       string     `yaml:"color"`
	Icon        string     `yaml:"icon"`
	Goals       []GoalSeed `yaml:"goals"`
}

type file struct {
	Categories []CategorySeed `yaml:"categories"`
}

type Catalog struct {
	categories []CategorySeed
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFromFile reads a catalog from path, or the embedded one when path is empty.
func LoadFromFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, errors.New("catalog has no categories")
	}
	seen := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c.Name == "" {
			return nil, errors.New("catalog category without a name")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate catalog category %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Goals) < GoalsPerCategory {
			return nil, fmt.Errorf("category %q needs at least %d goals", c.Name, GoalsPerCategory)
		}
	}
	return &Catalog{categories: f.Categories}, nil
}

func (c *Catalog) Categories() []CategorySeed {
	out := make([]CategorySeed, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Len() int {
	return len(c.categories)
}

// Seed inserts missing categories and system goals. Existing rows are left alone,
// so running it repeatedly is safe. It returns how many rows were created.
func (c *Catalog) Seed(db *gorm.DB) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for i, seed := range c.Categories() {
			var category models.Category
			err := tx.Where("name = ?", seed.Name).First(&category).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				category = models.Category{
					Name:        seed.Name,
					Description: seed.Description,
					Color:       seed.Color,
					Icon:        seed.Icon,
					SortOrder:   i,
				}
				if err := tx.Create(&category).Error; err != nil {
					return fmt.Errorf("failed to seed category %s: %w", seed.Name, err)
				}
				created++
			} else if err != nil {
				return fmt.Errorf("failed to find category %s: %w", seed.Name, err)
			}

			for _, g := range seed.Goals {
				var count int64
				if err := tx.Model(&models.Goal{}).
					Where("category_id = ? AND title = ? AND is_custom = ?", category.ID, g.Title, false).
					Count(&count).Error; err != nil {
					return fmt.Errorf("failed to find goal %s: %w", g.Title, err)
				}
				if count > 0 {
					continue
				}
				goal := models.Goal{
					CategoryID:  category.ID,
					Title:       g.Title,
					Description: g.Description,
				}
				if err := tx.Create(&goal).Error; err != nil {
					return fmt.Errorf("failed to seed goal %s: %w", g.Title, err)
				}
				created++
			}
		}
		return nil
	})
	return created, err
}
