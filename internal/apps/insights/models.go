package insights

import "github.com/ahmetcoskunkizilkaya/trackrock/internal/models"

// --- DTOs ---

type WeekStat struct {
	WeekStartDate       string      `json:"weekStartDate"`
	TotalGoals          int         `json:"totalGoals"`
	CompletedGoals      int         `json:"completedGoals"`
	CompletionRate      float64     `json:"completionRate"`
	CategoriesCompleted int         `json:"categoriesCompleted"`
	Tier                models.Tier `json:"tier"`
}

type WeeklyStatsResponse struct {
	Weeks []WeekStat `json:"weeks"`
}

type CategoryStat struct {
	CategoryID     string  `json:"categoryId"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Selections     int     `json:"selections"`
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completionRate"`
}

type CategoryPerformanceResponse struct {
	Categories []CategoryStat `json:"categories"`
}

type DayPoint struct {
	Date        string `json:"date"`
	Completions int    `json:"completions"`
}

type WeekdayPoint struct {
	Weekday     string `json:"weekday"`
	Completions int    `json:"completions"`
}

type CompletionTrendsResponse struct {
	Days      []DayPoint     `json:"days"`
	ByWeekday []WeekdayPoint `json:"byWeekday"`
}

type AchievementProgressionResponse struct {
	Achievements []models.Achievement `json:"achievements"`
	Counts       map[models.Tier]int  `json:"counts"`
	BestTier     models.Tier          `json:"bestTier"`
}
