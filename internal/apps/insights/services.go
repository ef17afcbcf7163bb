package insights

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultWeeks = 12
	MaxWeeks     = 52
	DefaultDays  = 30
	MinDays      = 7
	MaxDays      = 90
)

var (
	ErrWeeksOutOfRange = errors.New("weeks must be between 1 and 52")
	ErrDaysOutOfRange  = errors.New("days must be between 7 and 90")
)

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

func (s *AnalyticsService) WeeklyStats(userID uuid.UUID, weeks int) (*WeeklyStatsResponse, error) {
	if weeks < 1 || weeks > MaxWeeks {
		return nil, ErrWeeksOutOfRange
	}
	from := calendar.WeeksBack(s.now(), weeks-1)

	var rows []models.UserGoal
	err := s.db.Scopes(identity.ForUser(userID)).
		Where("week_start >= ?", from).
		Preload("Goal.Category").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return &WeeklyStatsResponse{Weeks: WeeklyStats(rows)}, nil
}

func (s *AnalyticsService) CategoryPerformance(userID uuid.UUID) (*CategoryPerformanceResponse, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	var rows []models.UserGoal
	if err := s.db.Scopes(identity.ForUser(userID)).Preload("Goal").Find(&rows).Error; err != nil {
		return nil, err
	}
	return &CategoryPerformanceResponse{Categories: CategoryPerformance(categories, rows)}, nil
}

func (s *AnalyticsService) CompletionTrends(userID uuid.UUID, days int) (*CompletionTrendsResponse, error) {
	if days < MinDays || days > MaxDays {
		return nil, ErrDaysOutOfRange
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	var stamps []time.Time
	err := s.db.Model(&models.UserGoal{}).
		Scopes(identity.ForUser(userID)).
		Where("completed = ? AND completed_at IS NOT NULL AND completed_at >= ?", true, start).
		Pluck("completed_at", &stamps).Error
	if err != nil {
		return nil, err
	}
	resp := CompletionTrends(stamps, days, now)
	return &resp, nil
}

func (s *AnalyticsService) AchievementProgression(userID uuid.UUID) (*AchievementProgressionResponse, error) {
	var rows []models.Achievement
	if err := s.db.Scopes(identity.ForUser(userID)).Order("week_start ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	resp := AchievementProgression(rows)
	return &resp, nil
}
