package catalog

import (
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/database"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
)

func TestDefaultCatalogShape(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() != 6 {
		t.Fatalf("want 6 categories, got %d", c.Len())
	}
	for _, cat := range c.Categories() {
		if len(cat.Goals) != 4 {
			t.Errorf("category %s has %d goals, want 4", cat.Name, len(cat.Goals))
		}
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":     "categories: []",
		"no name":   "categories:\n  - goals: [{title: a}, {title: b}]",
		"duplicate": "categories:\n  - name: A\n    goals: [{title: a}, {title: b}]\n  - name: A\n    goals: [{title: a}, {title: b}]",
		"too few":   "categories:\n  - name: A\n    goals: [{title: a}]",
		"not yaml":  "categories: [",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "seed.db")})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	created, err := c.Seed(db)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if created != 30 {
		t.Errorf("first seed created %d rows, want 30", created)
	}

	created, err = c.Seed(db)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created != 0 {
		t.Errorf("second seed created %d rows, want 0", created)
	}

	var categories, goals int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Goal{}).Count(&goals)
	if categories != 6 || goals != 24 {
		t.Errorf("got %d categories / %d goals, want 6 / 24", categories, goals)
	}

	var first models.Category
	db.Order("sort_order ASC").First(&first)
	if first.Name != "Personal" {
		t.Errorf("first category = %s, want Personal", first.Name)
	}
}
