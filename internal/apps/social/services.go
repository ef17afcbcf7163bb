package social

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
	searchLimit      = 20
)

var (
	ErrCannotFriendSelf    = errors.New("you cannot send a friend request to yourself")
	ErrUserNotFound        = errors.New("user not found")
	ErrRequestExists       = errors.New("a friendship or pending request already exists")
	ErrRequestNotFound     = errors.New("friend request not found")
	ErrRequestNotPending   = errors.New("friend request is no longer pending")
	ErrFriendshipNotFound  = errors.New("friendship not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrInvalidVisibility   = errors.New("visibility must be friends or public")
	ErrQueryRequired       = errors.New("search query is required")
	ErrAddresseeRequired   = errors.New("addresseeId or username is required")
)

type SocialService struct {
	db       *gorm.DB
	activity *services.ActivityService
}

func NewSocialService(db *gorm.DB, activity *services.ActivityService) *SocialService {
	return &SocialService{db: db, activity: activity}
}

func pair(a, b uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))", a, b, b, a)
	}
}

func involving(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(requester_id = ? OR addressee_id = ?)", userID, userID)
	}
}

// FriendIDs returns the ids of everyone with an accepted friendship with userID.
func (s *SocialService) FriendIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []models.Friendship
	if err := s.db.Scopes(involving(userID)).Where("status = ?", models.FriendshipAccepted).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].Other(userID))
	}
	return ids, nil
}

func (s *SocialService) ListFriends(userID uuid.UUID) ([]FriendResponse, error) {
	var rows []models.Friendship
	err := s.db.Scopes(involving(userID)).
		Where("status = ?", models.FriendshipAccepted).
		Preload("Requester").Preload("Addressee").
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]FriendResponse, 0, len(rows))
	for i := range rows {
		friend := rows[i].Addressee
		if rows[i].AddresseeID == userID {
			friend = rows[i].Requester
		}
		out = append(out, FriendResponse{FriendshipID: rows[i].ID, User: summarize(friend), Since: rows[i].UpdatedAt})
	}
	return out, nil
}

func (s *SocialService) PendingRequests(userID uuid.UUID) (*RequestsResponse, error) {
	var rows []models.Friendship
	err := s.db.Scopes(involving(userID)).
		Where("status = ?", models.FriendshipPending).
		Preload("Requester").Preload("Addressee").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	resp := &RequestsResponse{Incoming: []PendingRequest{}, Outgoing: []PendingRequest{}}
	for i := range rows {
		if rows[i].AddresseeID == userID {
			resp.Incoming = append(resp.Incoming, PendingRequest{ID: rows[i].ID, User: summarize(rows[i].Requester), CreatedAt: rows[i].CreatedAt})
		} else {
			resp.Outgoing = append(resp.Outgoing, PendingRequest{ID: rows[i].ID, User: summarize(rows[i].Addressee), CreatedAt: rows[i].CreatedAt})
		}
	}
	return resp, nil
}

// Search finds users whose username starts with query, excluding the caller.
func (s *SocialService) Search(userID uuid.UUID, query string) ([]SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrQueryRequired
	}
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query)

	var users []models.User
	err := s.db.Where("LOWER(username) LIKE ? ESCAPE '\\' AND id <> ?", escaped+"%", userID).
		Order("username ASC").
		Limit(searchLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	var friendships []models.Friendship
	if err := s.db.Scopes(involving(userID)).Find(&friendships).Error; err != nil {
		return nil, err
	}
	status := make(map[uuid.UUID]models.FriendshipStatus, len(friendships))
	for i := range friendships {
		status[friendships[i].Other(userID)] = friendships[i].Status
	}

	out := make([]SearchResult, 0, len(users))
	for i := range users {
		out = append(out, SearchResult{User: *summarize(&users[i]), FriendshipStatus: status[users[i].ID]})
	}
	return out, nil
}

func (s *SocialService) resolveAddressee(req FriendRequest) (*models.User, error) {
	var user models.User
	var err error
	switch {
	case req.AddresseeID != "":
		id, perr := uuid.Parse(req.AddresseeID)
		if perr != nil {
			return nil, ErrUserNotFound
		}
		err = s.db.First(&user, "id = ?", id).Error
	case strings.TrimSpace(req.Username) != "":
		err = s.db.Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(req.Username))).First(&user).Error
	default:
		return nil, ErrAddresseeRequired
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SendRequest creates a pending request. A declined pair is reopened with the
// caller as requester; any other existing row blocks the request.
func (s *SocialService) SendRequest(userID uuid.UUID, req FriendRequest) (*models.Friendship, error) {
	addressee, err := s.resolveAddressee(req)
	if err != nil {
		return nil, err
	}
	if addressee.ID == userID {
		return nil, ErrCannotFriendSelf
	}

	var friendship models.Friendship
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Friendship
		if err := tx.Scopes(pair(userID, addressee.ID)).Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if existing[i].Status != models.FriendshipDeclined {
				return ErrRequestExists
			}
		}
		if len(existing) > 0 {
			if err := tx.Scopes(pair(userID, addressee.ID)).Delete(&models.Friendship{}).Error; err != nil {
				return err
			}
		}

		friendship = models.Friendship{
			ID:          uuid.New(),
			RequesterID: userID,
			AddresseeID: addressee.ID,
			Status:      models.FriendshipPending,
		}
		return tx.Create(&friendship).Error
	})
	if err != nil {
		return nil, err
	}
	friendship.Addressee = addressee
	return &friendship, nil
}

func (s *SocialService) pendingFor(tx *gorm.DB, userID, friendshipID uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	if err := tx.Where("id = ? AND addressee_id = ?", friendshipID, userID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if f.Status != models.FriendshipPending {
		return nil, ErrRequestNotPending
	}
	return &f, nil
}

func (s *SocialService) Accept(userID, friendshipID uuid.UUID) (*models.Friendship, error) {
	var friendship *models.Friendship
	err := s.db.Transaction(func(tx *gorm.DB) error {
		f, err := s.pendingFor(tx, userID, friendshipID)
		if err != nil {
			return err
		}
		if err := tx.Model(f).Update("status", models.FriendshipAccepted).Error; err != nil {
			return err
		}
		if err := tx.Preload("Requester").Preload("Addressee").First(f, "id = ?", f.ID).Error; err != nil {
			return fmt.Errorf("failed to load friendship parties: %w", err)
		}
		friendship = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	if friendship.Requester != nil && friendship.Addressee != nil {
		s.activity.RecordQuietly(friendship.RequesterID, models.ActivityFriendAdded,
			"Became friends with "+friendship.Addressee.DisplayName(),
			map[string]interface{}{"friendId": friendship.AddresseeID.String()})
		s.activity.RecordQuietly(friendship.AddresseeID, models.ActivityFriendAdded,
			"Became friends with "+friendship.Requester.DisplayName(),
			map[string]interface{}{"friendId": friendship.RequesterID.String()})
	}
	return friendship, nil
}

func (s *SocialService) Decline(userID, friendshipID uuid.UUID) (*models.Friendship, error) {
	var friendship *models.Friendship
	err := s.db.Transaction(func(tx *gorm.DB) error {
		f, err := s.pendingFor(tx, userID, friendshipID)
		if err != nil {
			return err
		}
		if err := tx.Model(f).Update("status", models.FriendshipDeclined).Error; err != nil {
			return err
		}
		friendship = f
		return nil
	})
	return friendship, err
}

// Remove ends an accepted friendship. id may be the friendship id or the friend's user id.
func (s *SocialService) Remove(userID, id uuid.UUID) error {
	if id == userID {
		return ErrFriendshipNotFound
	}
	res := s.db.Scopes(involving(userID)).
		Where("status = ?", models.FriendshipAccepted).
		Where("(id = ? OR requester_id = ? OR addressee_id = ?)", id, id, id).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// visibleTo limits feed-like rows to the caller's own, friends' non-private and public rows.
func visibleTo(userID uuid.UUID, friendIDs []uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(friendIDs) == 0 {
			return db.Where("(user_id = ? OR visibility = ?)", userID, models.VisibilityPublic)
		}
		return db.Where("(user_id = ? OR (user_id IN ? AND visibility IN ?) OR visibility = ?)",
			userID, friendIDs,
			[]models.Visibility{models.VisibilityFriends, models.VisibilityPublic},
			models.VisibilityPublic)
	}
}

func (s *SocialService) Feed(userID uuid.UUID, limit int) ([]ActivityResponse, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	friends, err := s.FriendIDs(userID)
	if err != nil {
		return nil, err
	}

	var rows []models.ActivityFeed
	err = s.db.Scopes(visibleTo(userID, friends)).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ActivityResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ActivityResponse{
			ID:           rows[i].ID,
			ActivityType: rows[i].Type,
			Message:      rows[i].Message,
			Metadata:     rows[i].Metadata,
			Visibility:   rows[i].Visibility,
			CreatedAt:    rows[i].CreatedAt,
			User:         summarize(rows[i].User),
		})
	}
	return out, nil
}

func (s *SocialService) Share(userID, achievementID uuid.UUID, req ShareRequest) (*SharedAchievementResponse, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityFriends
	}
	if visibility != models.VisibilityFriends && visibility != models.VisibilityPublic {
		return nil, ErrInvalidVisibility
	}

	var a models.Achievement
	if err := s.db.Where("id = ? AND user_id = ?", achievementID, userID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	share := models.SharedAchievement{
		ID:            uuid.New(),
		AchievementID: a.ID,
		UserID:        userID,
		Message:       strings.TrimSpace(req.Message),
		Visibility:    visibility,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&share).Error; err != nil {
			return err
		}
		_, err := s.activity.WithTx(tx).Record(userID, models.ActivityAchievementShared,
			fmt.Sprintf("Shared a %s week (%s)", a.Tier, a.WeekStart),
			map[string]interface{}{"achievementId": a.ID.String(), "tier": string(a.Tier), "shareId": share.ID.String()},
			visibility)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to share achievement: %w", err)
	}

	return &SharedAchievementResponse{
		ID:          share.ID,
		Message:     share.Message,
		Visibility:  share.Visibility,
		CreatedAt:   share.CreatedAt,
		User:        summarize(&user),
		Achievement: &a,
	}, nil
}

func (s *SocialService) SharedAchievements(userID uuid.UUID, limit int) ([]SharedAchievementResponse, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	friends, err := s.FriendIDs(userID)
	if err != nil {
		return nil, err
	}

	var rows []models.SharedAchievement
	err = s.db.Scopes(visibleTo(userID, friends)).
		Preload("User").Preload("Achievement").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]SharedAchievementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, SharedAchievementResponse{
			ID:          rows[i].ID,
			Message:     rows[i].Message,
			Visibility:  rows[i].Visibility,
			CreatedAt:   rows[i].CreatedAt,
			User:        summarize(rows[i].User),
			Achievement: rows[i].Achievement,
		})
	}
	return out, nil
}
