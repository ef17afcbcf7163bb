package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is one of the fixed life areas. Rows are seeded once and never edited.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Color       string    `gorm:"size:20" json:"color"`
	Icon        string    `gorm:"size:50" json:"icon"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Goal is either a seeded system goal or a custom goal authored by CreatedBy.
type Goal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"categoryId"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsCustom    bool       `gorm:"not null;default:false" json:"isCustom"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;index" json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// UserGoal is one selected goal in a user's week.
type UserGoal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_goals_user_week,priority:1" json:"userId"`
	GoalID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"goalId"`
	WeekStart   string     `gorm:"size:10;not null;index:idx_user_goals_user_week,priority:2" json:"weekStartDate"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	Goal        *Goal      `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}

func (ug *UserGoal) BeforeCreate(tx *gorm.DB) error {
	if ug.ID == uuid.Nil {
		ug.ID = uuid.New()
	}
	return nil
}

// CategoryName returns the preloaded category name, or "" when not loaded.
func (ug *UserGoal) CategoryName() string {
	if ug.Goal == nil || ug.Goal.Category == nil {
		return ""
	}
	return ug.Goal.Category.Name
}
