package weekly

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/achievement"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
)

// --- DTOs ---

type CreateGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SelectGoalsRequest struct {
	GoalIDs []string `json:"goalIds"`
}

type CompleteGoalRequest struct {
	Completed *bool `json:"completed"`
}

type WeekGoalsResponse struct {
	WeekStartDate string            `json:"weekStartDate"`
	Goals         []models.UserGoal `json:"goals"`
}

type CompleteGoalResponse struct {
	UserGoal       models.UserGoal     `json:"userGoal"`
	Progress       achievement.Result  `json:"progress"`
	Achievement    *models.Achievement `json:"achievement"`
	NewAchievement bool                `json:"newAchievement"`
}

type CategoryProgress struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Selected   int    `json:"selected"`
	Completed  int    `json:"completed"`
	IsComplete bool   `json:"isComplete"`
}

type ProgressResponse struct {
	WeekStartDate       string             `json:"weekStartDate"`
	Categories          []CategoryProgress `json:"categories"`
	TotalSelected       int                `json:"totalSelected"`
	TotalCompleted      int                `json:"totalCompleted"`
	CategoriesCompleted int                `json:"categoriesCompleted"`
	Tier                models.Tier        `json:"tier"`
	AchievementStored   bool               `json:"achievementStored"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}
