package social

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// --- DTOs ---

// UserSummary is the public face of a user; it never carries email.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

func summarize(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

type FriendRequest struct {
	AddresseeID string `json:"addresseeId"`
	Username    string `json:"username"`
}

type FriendResponse struct {
	FriendshipID uuid.UUID    `json:"friendshipId"`
	User         *UserSummary `json:"user"`
	Since        time.Time    `json:"since"`
}

type PendingRequest struct {
	ID        uuid.UUID    `json:"id"`
	User      *UserSummary `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
}

type RequestsResponse struct {
	Incoming []PendingRequest `json:"incoming"`
	Outgoing []PendingRequest `json:"outgoing"`
}

type SearchResult struct {
	User             UserSummary             `json:"user"`
	FriendshipStatus models.FriendshipStatus `json:"friendshipStatus,omitempty"`
}

type ActivityResponse struct {
	ID           uuid.UUID           `json:"id"`
	ActivityType models.ActivityType `json:"activityType"`
	Message      string              `json:"message"`
	Metadata     datatypes.JSON      `json:"metadata"`
	Visibility   models.Visibility   `json:"visibility"`
	CreatedAt    time.Time           `json:"createdAt"`
	User         *UserSummary        `json:"user"`
}

type ShareRequest struct {
	Message    string            `json:"message"`
	Visibility models.Visibility `json:"visibility"`
}

type SharedAchievementResponse struct {
	ID          uuid.UUID           `json:"id"`
	Message     string              `json:"message"`
	Visibility  models.Visibility   `json:"visibility"`
	CreatedAt   time.Time           `json:"createdAt"`
	User        *UserSummary        `json:"user"`
	Achievement *models.Achievement `json:"achievement"`
}
