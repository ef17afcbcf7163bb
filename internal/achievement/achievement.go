// Package achievement derives weekly tiers from completed goals and stores the
// first tier a user reaches in a week.
package achievement

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionsPerCategory is how many completed goals make a category complete.
const CompletionsPerCategory = 2

// Result is the live evaluation of a week.
type Result struct {
	CategoriesCompleted int         `json:"categoriesCompleted"`
	Tier                models.Tier `json:"tier"`
}

// TierFor maps a count of completed categories to a tier.
func TierFor(categoriesCompleted int) models.Tier {
	switch {
	case categoriesCompleted >= 6:
		return models.TierSlayed
	case categoriesCompleted >= 4:
		return models.TierRock
	case categoriesCompleted >= 2:
		return models.TierTrack
	default:
		return models.TierNone
	}
}

// CompletionsByCategory counts completed rows per category name. Rows need
// Goal.Category preloaded; rows without it are ignored.
func CompletionsByCategory(rows []models.UserGoal) map[string]int {
	counts := make(map[string]int)
	for i := range rows {
		name := rows[i].CategoryName()
		if name == "" || !rows[i].Completed {
			continue
		}
		counts[name]++
	}
	return counts
}

// Evaluate computes the tier for a week's rows.
func Evaluate(rows []models.UserGoal) Result {
	completed := 0
	for _, n := range CompletionsByCategory(rows) {
		if n >= CompletionsPerCategory {
			completed++
		}
	}
	return Result{CategoriesCompleted: completed, Tier: TierFor(completed)}
}

// LoadWeek returns a user's selected goals for a week with goal and category preloaded.
func LoadWeek(db *gorm.DB, userID uuid.UUID, weekStart string) ([]models.UserGoal, error) {
	var rows []models.UserGoal
	err := db.Scopes(identity.ForUser(userID), identity.ForWeek(weekStart)).
		Preload("Goal.Category").
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// Record stores an achievement for (user, week) unless the tier is none or a
// row already exists. It returns the stored row, if any, and whether this call
// created it.
func Record(db *gorm.DB, userID uuid.UUID, weekStart string, result Result) (*models.Achievement, bool, error) {
	if result.Tier == models.TierNone {
		existing, err := Find(db, userID, weekStart)
		return existing, false, err
	}

	row := models.Achievement{
		ID:                  uuid.New(),
		UserID:              userID,
		WeekStart:           weekStart,
		CategoriesCompleted: result.CategoriesCompleted,
		Tier:                result.Tier,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to store achievement: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &row, true, nil
	}

	existing, err := Find(db, userID, weekStart)
	return existing, false, err
}

// Find returns the stored achievement for (user, week), or nil when none exists.
func Find(db *gorm.DB, userID uuid.UUID, weekStart string) (*models.Achievement, error) {
	var row models.Achievement
	err := db.Scopes(identity.ForUser(userID), identity.ForWeek(weekStart)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
