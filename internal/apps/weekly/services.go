package weekly

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/achievement"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalsPerWeek is the size of a complete weekly selection.
const GoalsPerWeek = 12

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserGoalNotFound = errors.New("goal selection not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title must be at most 200 characters")
)

type GoalService struct {
	db       *gorm.DB
	activity *services.ActivityService
	now      func() time.Time
}

func NewGoalService(db *gorm.DB, activity *services.ActivityService) *GoalService {
	return &GoalService{db: db, activity: activity, now: time.Now}
}

func (s *GoalService) weekKey() string {
	return calendar.WeekKey(s.now())
}

func (s *GoalService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (s *GoalService) findCategory(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// eligible limits goals to system goals plus the user's own custom goals.
func eligible(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(is_custom = ? OR created_by = ?)", false, userID)
	}
}

func (s *GoalService) ListGoals(userID, categoryID uuid.UUID) ([]models.Goal, error) {
	if _, err := s.findCategory(categoryID); err != nil {
		return nil, err
	}
	var goals []models.Goal
	err := s.db.Scopes(eligible(userID)).
		Where("category_id = ?", categoryID).
		Order("is_custom ASC, created_at ASC, title ASC").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) CreateCustomGoal(userID, categoryID uuid.UUID, req CreateGoalRequest) (*models.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > 200 {
		return nil, ErrTitleTooLong
	}
	category, err := s.findCategory(categoryID)
	if err != nil {
		return nil, err
	}

	owner := userID
	goal := models.Goal{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		IsCustom:    true,
		CreatedBy:   &owner,
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	goal.Category = category

	s.activity.RecordQuietly(userID, models.ActivityCustomGoalCreated,
		fmt.Sprintf("Created a custom %s goal: %s", category.Name, title),
		map[string]interface{}{"goalId": goal.ID.String(), "category": category.Name})

	return &goal, nil
}

// Recommendations gathers the scorer's inputs. categoryID may be nil.
func (s *GoalService) Recommendations(userID uuid.UUID, categoryID *uuid.UUID) ([]Recommendation, error) {
	candidates := s.db.Scopes(eligible(userID)).Preload("Category")
	if categoryID != nil {
		if _, err := s.findCategory(*categoryID); err != nil {
			return nil, err
		}
		candidates = candidates.Where("category_id = ?", *categoryID)
	}
	var goals []models.Goal
	if err := candidates.Find(&goals).Error; err != nil {
		return nil, err
	}

	var history []Selection
	err := s.db.Table("user_goals").
		Select("user_goals.goal_id, goals.category_id, user_goals.completed, user_goals.week_start").
		Joins("JOIN goals ON goals.id = user_goals.goal_id").
		Where("user_goals.user_id = ?", userID).
		Scan(&history).Error
	if err != nil {
		return nil, err
	}

	type globalRow struct {
		GoalID      uuid.UUID
		Attempts    int
		Completions int
	}
	var rows []globalRow
	err = s.db.Model(&models.UserGoal{}).
		Select("goal_id, COUNT(*) AS attempts, SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completions").
		Group("goal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	global := make(map[uuid.UUID]GoalStats, len(rows))
	for _, r := range rows {
		global[r.GoalID] = GoalStats{Attempts: r.Attempts, Completions: r.Completions}
	}

	var categoryIDs []uuid.UUID
	if err := s.db.Model(&models.Category{}).Pluck("id", &categoryIDs).Error; err != nil {
		return nil, err
	}

	return Score(ScoreInput{
		UserID:      userID,
		Candidates:  goals,
		History:     history,
		Global:      global,
		CategoryIDs: categoryIDs,
		Filtered:    categoryID != nil,
		Now:         s.now(),
	}), nil
}

func (s *GoalService) WeekGoals(userID uuid.UUID) (*WeekGoalsResponse, error) {
	week := s.weekKey()
	rows, err := achievement.LoadWeek(s.db, userID, week)
	if err != nil {
		return nil, err
	}
	return &WeekGoalsResponse{WeekStartDate: week, Goals: rows}, nil
}

// SelectGoals replaces the user's selection for the current week.
func (s *GoalService) SelectGoals(userID uuid.UUID, rawIDs []string) (*WeekGoalsResponse, error) {
	ids, err := s.validateSelection(userID, rawIDs)
	if err != nil {
		return nil, err
	}

	week := s.weekKey()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(identity.ForUser(userID), identity.ForWeek(week)).
			Delete(&models.UserGoal{}).Error; err != nil {
			return err
		}
		rows := make([]models.UserGoal, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserGoal{
				ID:        uuid.New(),
				UserID:    userID,
				GoalID:    id,
				WeekStart: week,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}

	s.activity.RecordQuietly(userID, models.ActivityGoalsSelected,
		fmt.Sprintf("Picked %d goals for the week of %s", len(ids), week),
		map[string]interface{}{"weekStartDate": week, "count": len(ids)})

	return s.WeekGoals(userID)
}

func (s *GoalService) validateSelection(userID uuid.UUID, rawIDs []string) ([]uuid.UUID, error) {
	if len(rawIDs) != GoalsPerWeek {
		return nil, services.Validation([]string{
			fmt.Sprintf("exactly %d goals must be selected, got %d", GoalsPerWeek, len(rawIDs)),
		})
	}

	var problems []string
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]bool, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid goal id %q", raw))
			continue
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("goal %s selected more than once", id))
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := services.Validation(problems); err != nil {
		return nil, err
	}

	var goals []models.Goal
	if err := s.db.Scopes(eligible(userID)).Where("id IN ?", ids).Find(&goals).Error; err != nil {
		return nil, err
	}
	if len(goals) != len(ids) {
		found := make(map[uuid.UUID]bool, len(goals))
		for _, g := range goals {
			found[g.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				problems = append(problems, fmt.Sprintf("goal %s does not exist", id))
			}
		}
		return nil, services.Validation(problems)
	}

	var categories []models.Category
	if err := s.db.Order("sort_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	perCategory := make(map[uuid.UUID]int)
	for _, g := range goals {
		perCategory[g.CategoryID]++
	}
	for _, c := range categories {
		if n := perCategory[c.ID]; n != catalog.GoalsPerCategory {
			problems = append(problems, fmt.Sprintf("%s needs exactly %d goals, got %d", c.Name, catalog.GoalsPerCategory, n))
		}
	}
	if err := services.Validation(problems); err != nil {
		return nil, err
	}
	return ids, nil
}

// CompleteGoal sets or toggles completion of one selected goal and re-evaluates
// the week it belongs to.
func (s *GoalService) CompleteGoal(userID, userGoalID uuid.UUID, completed *bool) (*CompleteGoalResponse, error) {
	var resp CompleteGoalResponse
	var goalTitle string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var row models.UserGoal
		if err := tx.Scopes(identity.ForUser(userID)).Preload("Goal.Category").
			First(&row, "id = ?", userGoalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserGoalNotFound
			}
			return err
		}

		next := !row.Completed
		if completed != nil {
			next = *completed
		}
		var completedAt *time.Time
		if next {
			now := s.now()
			completedAt = &now
		}
		if err := tx.Model(&models.UserGoal{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"completed": next, "completed_at": completedAt}).Error; err != nil {
			return err
		}
		row.Completed = next
		row.CompletedAt = completedAt
		if row.Goal != nil {
			goalTitle = row.Goal.Title
		}

		rows, err := achievement.LoadWeek(tx, userID, row.WeekStart)
		if err != nil {
			return err
		}
		resp.Progress = achievement.Evaluate(rows)
		stored, created, err := achievement.Record(tx, userID, row.WeekStart, resp.Progress)
		if err != nil {
			return err
		}
		resp.UserGoal = row
		resp.Achievement = stored
		resp.NewAchievement = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.UserGoal.Completed {
		s.activity.RecordQuietly(userID, models.ActivityGoalCompleted,
			"Completed "+goalTitle,
			map[string]interface{}{"goalId": resp.UserGoal.GoalID.String(), "weekStartDate": resp.UserGoal.WeekStart})
	}
	if resp.NewAchievement {
		s.activity.RecordQuietly(userID, models.ActivityAchievementEarned,
			fmt.Sprintf("Earned %s with %d categories completed", resp.Achievement.Tier, resp.Achievement.CategoriesCompleted),
			map[string]interface{}{"achievementId": resp.Achievement.ID.String(), "tier": string(resp.Achievement.Tier)})
	}
	return &resp, nil
}

func (s *GoalService) Progress(userID uuid.UUID) (*ProgressResponse, error) {
	week := s.weekKey()
	rows, err := achievement.LoadWeek(s.db, userID, week)
	if err != nil {
		return nil, err
	}
	categories, err := s.ListCategories()
	if err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID]int)
	completed := make(map[uuid.UUID]int)
	resp := &ProgressResponse{WeekStartDate: week}
	for _, r := range rows {
		if r.Goal == nil {
			continue
		}
		selected[r.Goal.CategoryID]++
		resp.TotalSelected++
		if r.Completed {
			completed[r.Goal.CategoryID]++
			resp.TotalCompleted++
		}
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, CategoryProgress{
			CategoryID: c.ID.String(),
			Name:       c.Name,
			Color:      c.Color,
			Selected:   selected[c.ID],
			Completed:  completed[c.ID],
			IsComplete: completed[c.ID] >= achievement.CompletionsPerCategory,
		})
	}

	live := achievement.Evaluate(rows)
	resp.CategoriesCompleted = live.CategoriesCompleted
	resp.Tier = live.Tier

	stored, err := achievement.Find(s.db, userID, week)
	if err != nil {
		return nil, err
	}
	resp.AchievementStored = stored != nil
	return resp, nil
}

func (s *GoalService) Achievements(userID uuid.UUID) ([]models.Achievement, error) {
	var rows []models.Achievement
	err := s.db.Scopes(identity.ForUser(userID)).Order("week_start DESC").Find(&rows).Error
	return rows, err
}
