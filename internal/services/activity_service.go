package services

import (
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityService writes entries to the shared activity feed.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// WithTx returns a copy bound to an open transaction.
func (s *ActivityService) WithTx(tx *gorm.DB) *ActivityService {
	return &ActivityService{db: tx}
}

func (s *ActivityService) Record(userID uuid.UUID, kind models.ActivityType, message string, metadata map[string]interface{}, visibility models.Visibility) (*models.ActivityFeed, error) {
	if visibility == "" {
		visibility = models.VisibilityFriends
	}
	entry := models.ActivityFeed{
		UserID:     userID,
		Type:       kind,
		Message:    message,
		Visibility: visibility,
	}
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		entry.Metadata = datatypes.JSON(b)
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RecordQuietly logs instead of failing the caller; the feed is secondary to
// the action that produced it.
func (s *ActivityService) RecordQuietly(userID uuid.UUID, kind models.ActivityType, message string, metadata map[string]interface{}) {
	if _, err := s.Record(userID, kind, message, metadata, models.VisibilityFriends); err != nil {
		slog.Error("failed to record activity", "user_id", userID.String(), "action", string(kind), "error", err)
	}
}
