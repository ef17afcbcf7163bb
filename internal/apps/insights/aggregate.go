package insights

import (
	"math"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/achievement"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
)

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// WeeklyStats groups selections by week, ascending. Rows need Goal.Category preloaded.
func WeeklyStats(rows []models.UserGoal) []WeekStat {
	byWeek := make(map[string][]models.UserGoal)
	for _, r := range rows {
		byWeek[r.WeekStart] = append(byWeek[r.WeekStart], r)
	}

	out := make([]WeekStat, 0, len(byWeek))
	for week, weekRows := range byWeek {
		completed := 0
		for _, r := range weekRows {
			if r.Completed {
				completed++
			}
		}
		live := achievement.Evaluate(weekRows)
		out = append(out, WeekStat{
			WeekStartDate:       week,
			TotalGoals:          len(weekRows),
			CompletedGoals:      completed,
			CompletionRate:      percent(completed, len(weekRows)),
			CategoriesCompleted: live.CategoriesCompleted,
			Tier:                live.Tier,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStartDate < out[j].WeekStartDate })
	return out
}

// CategoryPerformance reports every category, including ones never selected.
func CategoryPerformance(categories []models.Category, rows []models.UserGoal) []CategoryStat {
	type counts struct{ selections, completions int }
	byCategory := make(map[string]*counts)
	for _, r := range rows {
		if r.Goal == nil {
			continue
		}
		key := r.Goal.CategoryID.String()
		c := byCategory[key]
		if c == nil {
			c = &counts{}
			byCategory[key] = c
		}
		c.selections++
		if r.Completed {
			c.completions++
		}
	}

	out := make([]CategoryStat, 0, len(categories))
	for _, cat := range categories {
		stat := CategoryStat{CategoryID: cat.ID.String(), Name: cat.Name, Color: cat.Color}
		if c := byCategory[stat.CategoryID]; c != nil {
			stat.Selections = c.selections
			stat.Completions = c.completions
			stat.CompletionRate = percent(c.completions, c.selections)
		}
		out = append(out, stat)
	}
	return out
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// CompletionTrends buckets completion times into the days days ending today,
// zero-filled, plus totals per weekday starting Monday.
func CompletionTrends(completedAt []time.Time, days int, now time.Time) CompletionTrendsResponse {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	perDay := make(map[string]int)
	perWeekday := make(map[time.Weekday]int)
	for _, ts := range completedAt {
		local := ts.In(now.Location())
		if local.Before(start) || !local.Before(today.AddDate(0, 0, 1)) {
			continue
		}
		perDay[local.Format(calendar.KeyLayout)]++
		perWeekday[local.Weekday()]++
	}

	resp := CompletionTrendsResponse{
		Days:      make([]DayPoint, 0, days),
		ByWeekday: make([]WeekdayPoint, 0, len(weekdayOrder)),
	}
	for d := 0; d < days; d++ {
		key := start.AddDate(0, 0, d).Format(calendar.KeyLayout)
		resp.Days = append(resp.Days, DayPoint{Date: key, Completions: perDay[key]})
	}
	for _, wd := range weekdayOrder {
		resp.ByWeekday = append(resp.ByWeekday, WeekdayPoint{Weekday: wd.String(), Completions: perWeekday[wd]})
	}
	return resp
}

// AchievementProgression summarizes stored achievements, which must be sorted ascending.
func AchievementProgression(rows []models.Achievement) AchievementProgressionResponse {
	resp := AchievementProgressionResponse{
		Achievements: rows,
		Counts: map[models.Tier]int{
			models.TierTrack:  0,
			models.TierRock:   0,
			models.TierSlayed: 0,
		},
		BestTier: models.TierNone,
	}
	if resp.Achievements == nil {
		resp.Achievements = []models.Achievement{}
	}
	for _, a := range rows {
		resp.Counts[a.Tier]++
		if a.Tier.Rank() > resp.BestTier.Rank() {
			resp.BestTier = a.Tier
		}
	}
	return resp
}
