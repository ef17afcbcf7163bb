package apps

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin is a feature area mounted on the API: it owns its tables and routes.
type Plugin interface {
	// ID returns a short unique identifier used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts routes on the given Fiber group.
	// The group is prefixed with /api and every route added to it requires a JWT.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AllModels collects the models of every plugin, in order.
func AllModels(plugins []Plugin) []interface{} {
	var out []interface{}
	for _, p := range plugins {
		out = append(out, p.Models()...)
	}
	return out
}
