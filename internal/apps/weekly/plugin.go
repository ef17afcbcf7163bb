package weekly

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WeeklyPlugin serves the catalog, weekly selection, completion and achievements.
type WeeklyPlugin struct{}

func New() *WeeklyPlugin {
	return &WeeklyPlugin{}
}

func (p *WeeklyPlugin) ID() string { return "weekly" }

func (p *WeeklyPlugin) Models() []interface{} {
	return []interface{}{
		&models.UserGoal{},
		&models.Achievement{},
	}
}

func (p *WeeklyPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewGoalService(db, services.NewActivityService(db))
	handler := NewGoalHandler(svc)

	router.Get("/categories", handler.ListCategories)
	router.Get("/categories/:id/goals", handler.ListGoals)
	router.Post("/categories/:id/goals", handler.CreateGoal)
	router.Get("/goals/recommendations", handler.Recommendations)

	router.Get("/user/goals/week", handler.WeekGoals)
	router.Post("/user/select-goals", handler.SelectGoals)
	router.Patch("/user-goals/:id/complete", handler.CompleteGoal)
	router.Get("/user/progress", handler.Progress)
	router.Get("/user/achievements", handler.Achievements)
}
