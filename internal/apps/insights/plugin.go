package insights

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InsightsPlugin serves read-only analytics over a user's history. It owns no tables.
type InsightsPlugin struct{}

func New() *InsightsPlugin {
	return &InsightsPlugin{}
}

func (p *InsightsPlugin) ID() string { return "insights" }

func (p *InsightsPlugin) Models() []interface{} { return nil }

func (p *InsightsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewAnalyticsHandler(NewAnalyticsService(db))

	analytics := router.Group("/analytics")
	analytics.Get("/weekly-stats", handler.WeeklyStats)
	analytics.Get("/category-performance", handler.CategoryPerformance)
	analytics.Get("/completion-trends", handler.CompletionTrends)
	analytics.Get("/achievement-progression", handler.AchievementProgression)
}
