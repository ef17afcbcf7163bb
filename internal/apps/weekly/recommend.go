package weekly

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/google/uuid"
)

const (
	recommendLimit         = 12
	recommendCategoryLimit = 6
	recentWindow           = 28 * 24 * time.Hour
	defaultReason          = "Recommended for you"
	reasonSeparator        = " • "
)

// Selection is one past pick of a goal by the user being scored.
type Selection struct {
	GoalID     uuid.UUID
	CategoryID uuid.UUID
	Completed  bool
	WeekStart  string
}

// GoalStats counts attempts and completions of a goal across all users.
type GoalStats struct {
	Attempts    int
	Completions int
}

// ScoreInput is everything the scorer needs; it does no I/O.
type ScoreInput struct {
	UserID      uuid.UUID
	Candidates  []models.Goal
	History     []Selection
	Global      map[uuid.UUID]GoalStats
	CategoryIDs []uuid.UUID
	Filtered    bool
	Now         time.Time
}

type Recommendation struct {
	Goal   models.Goal `json:"goal"`
	Score  float64     `json:"score"`
	Reason string      `json:"reason"`
}

type tally struct {
	attempts    int
	completions int
	lastWeek    time.Time
}

// Score ranks candidate goals for a user from their history and global stats.
func Score(in ScoreInput) []Recommendation {
	byGoal := make(map[uuid.UUID]*tally)
	byCategory := make(map[uuid.UUID]*tally)
	for _, s := range in.History {
		g := byGoal[s.GoalID]
		if g == nil {
			g = &tally{}
			byGoal[s.GoalID] = g
		}
		c := byCategory[s.CategoryID]
		if c == nil {
			c = &tally{}
			byCategory[s.CategoryID] = c
		}
		g.attempts++
		c.attempts++
		if s.Completed {
			g.completions++
			c.completions++
		}
		if ws, err := calendar.ParseKey(s.WeekStart); err == nil && ws.After(c.lastWeek) {
			c.lastWeek = ws
		}
	}

	average := 0.0
	if len(in.CategoryIDs) > 0 {
		average = float64(len(in.History)) / float64(len(in.CategoryIDs))
	}

	out := make([]Recommendation, 0, len(in.Candidates))
	for _, goal := range in.Candidates {
		score := 0.0
		var notes []string

		if g := byGoal[goal.ID]; g == nil {
			score += 20
			notes = append(notes, "New goal to explore")
		} else if g.completions > 0 {
			ratio := float64(g.completions) / float64(g.attempts)
			score += ratio * 15
			if ratio >= 0.8 {
				notes = append(notes, "You excel at this goal")
			} else if ratio >= 0.5 {
				notes = append(notes, "You've done well with this before")
			}
		} else {
			score -= 5
		}

		categoryCount := 0
		if c := byCategory[goal.CategoryID]; c != nil {
			categoryCount = c.attempts
			score += float64(c.completions) / float64(c.attempts) * 10
			if !c.lastWeek.IsZero() && in.Now.Sub(c.lastWeek) <= recentWindow {
				score += 5
			}
		}

		if st, ok := in.Global[goal.ID]; ok && st.Attempts > 0 {
			score += float64(st.Completions) / float64(st.Attempts) * 8
		}

		if goal.IsCustom && goal.CreatedBy != nil && *goal.CreatedBy == in.UserID {
			score += 5
			notes = append(notes, "Your custom goal")
		}

		if float64(categoryCount) < average {
			score += 3
			notes = append(notes, "Adds variety to your week")
		}

		if score < 0 {
			score = 0
		}

		reason := defaultReason
		if len(notes) > 0 {
			reason = strings.Join(notes, reasonSeparator)
		}

		out = append(out, Recommendation{
			Goal:   goal,
			Score:  math.Round(score*100) / 100,
			Reason: reason,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Goal.Title < out[j].Goal.Title
	})

	limit := recommendLimit
	if in.Filtered {
		limit = recommendCategoryLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
