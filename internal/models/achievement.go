package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tier string

const (
	TierNone   Tier = "none"
	TierTrack  Tier = "track"
	TierRock   Tier = "rock"
	TierSlayed Tier = "slayed"
)

// Rank orders tiers from none (0) to slayed (3).
func (t Tier) Rank() int {
	switch t {
	case TierTrack:
		return 1
	case TierRock:
		return 2
	case TierSlayed:
		return 3
	default:
		return 0
	}
}

// Achievement is written once per user and week, the first time a tier is reached.
type Achievement struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_achievements_user_week,priority:1" json:"userId"`
	WeekStart           string    `gorm:"size:10;not null;uniqueIndex:idx_achievements_user_week,priority:2" json:"weekStartDate"`
	CategoriesCompleted int       `gorm:"not null" json:"categoriesCompleted"`
	Tier                Tier      `gorm:"size:20;not null" json:"achievementType"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
