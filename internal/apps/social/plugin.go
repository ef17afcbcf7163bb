package social

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SocialPlugin serves friendships, the activity feed and achievement sharing.
type SocialPlugin struct{}

func New() *SocialPlugin {
	return &SocialPlugin{}
}

func (p *SocialPlugin) ID() string { return "social" }

func (p *SocialPlugin) Models() []interface{} {
	return []interface{}{
		&models.Friendship{},
		&models.SharedAchievement{},
	}
}

func (p *SocialPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewSocialService(db, services.NewActivityService(db))
	handler := NewSocialHandler(svc)

	router.Get("/friends", handler.ListFriends)
	router.Get("/friends/requests", handler.Requests)
	router.Get("/friends/search", handler.Search)
	router.Post("/friends/request", handler.SendRequest)
	router.Post("/friends/:id/accept", handler.Accept)
	router.Post("/friends/:id/decline", handler.Decline)
	router.Delete("/friends/:id", handler.Remove)

	router.Get("/activity-feed", handler.Feed)
	router.Post("/achievements/:id/share", handler.Share)
	router.Get("/shared-achievements", handler.SharedAchievements)
}
