package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship is stored directed (requester -> addressee) but read symmetrically.
type Friendship struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID        `gorm:"type:uuid;not null;index" json:"requesterId"`
	AddresseeID uuid.UUID        `gorm:"type:uuid;not null;index" json:"addresseeId"`
	Status      FriendshipStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Requester   *User            `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee   *User            `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Other returns the party of the friendship that is not userID.
func (f *Friendship) Other(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
)

type ActivityType string

const (
	ActivityGoalsSelected     ActivityType = "goals_selected"
	ActivityGoalCompleted     ActivityType = "goal_completed"
	ActivityAchievementEarned ActivityType = "achievement_earned"
	ActivityAchievementShared ActivityType = "achievement_shared"
	ActivityFriendAdded       ActivityType = "friend_added"
	ActivityCustomGoalCreated ActivityType = "custom_goal_created"
)

type ActivityFeed struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Type       ActivityType   `gorm:"size:40;not null" json:"activityType"`
	Message    string         `gorm:"size:500;not null" json:"message"`
	Metadata   datatypes.JSON `json:"metadata"`
	Visibility Visibility     `gorm:"size:20;not null;default:'friends';index" json:"visibility"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityFeed) TableName() string {
	return "activity_feed"
}

func (a *ActivityFeed) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type SharedAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;index" json:"achievementId"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"userId"`
	Message       string       `gorm:"size:500" json:"message"`
	Visibility    Visibility   `gorm:"size:20;not null;default:'friends'" json:"visibility"`
	CreatedAt     time.Time    `gorm:"index" json:"createdAt"`
	User          *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (s *SharedAchievement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
