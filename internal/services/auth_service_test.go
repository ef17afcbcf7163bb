package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newAuthService(t *testing.T) (*AuthService, *identity.Blacklist) {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.OpenDB(t, cfg, false)
	bl := identity.NewBlacklist(cfg.TokenBlacklistLimit)
	return NewAuthService(db, cfg, bl), bl
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: " rocky ", Email: "Rocky@Example.com", Password: "password123", FirstName: "Rocky",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Username != "rocky" || resp.User.Email != "rocky@example.com" {
		t.Errorf("user not normalized: %+v", resp.User)
	}

	parsed, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) { return []byte(testutil.Secret), nil })
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims[identity.ClaimUserID] != resp.User.ID.String() {
		t.Errorf("userId claim = %v", claims[identity.ClaimUserID])
	}

	for _, login := range []dto.LoginRequest{
		{Username: "rocky", Password: "password123"},
		{Username: "ROCKY", Password: "password123"},
		{Email: "rocky@example.com", Password: "password123"},
	} {
		if _, err := svc.Login(&login); err != nil {
			t.Errorf("Login(%+v): %v", login, err)
		}
	}

	if _, err := svc.Login(&dto.LoginRequest{Username: "rocky", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Username: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Username: "ab", Email: "nope", Password: "short"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 3 {
		t.Errorf("messages = %v, want 3", verr.Messages)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)
	base := dto.RegisterRequest{Username: "rocky", Email: "rocky@example.com", Password: "password123"}
	if _, err := svc.Register(&base); err != nil {
		t.Fatal(err)
	}

	dupName := dto.RegisterRequest{Username: "Rocky", Email: "other@example.com", Password: "password123"}
	if _, err := svc.Register(&dupName); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username: got %v", err)
	}
	dupEmail := dto.RegisterRequest{Username: "other", Email: "ROCKY@example.com", Password: "password123"}
	if _, err := svc.Register(&dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: got %v", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, bl := newAuthService(t)
	resp, err := svc.Register(&dto.RegisterRequest{Username: "rocky", Email: "rocky@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	svc.Logout(resp.Token)
	if !bl.Contains(resp.Token) {
		t.Error("token should be blacklisted after logout")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.GetUser(uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestActivityRecord(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.OpenDB(t, cfg, false)
	user := testutil.CreateUser(t, db, "rocky")
	svc := NewActivityService(db)

	entry, err := svc.Record(user.ID, models.ActivityGoalCompleted, "Completed a goal", map[string]interface{}{"goal": "Read"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Visibility != models.VisibilityFriends {
		t.Errorf("visibility = %q, want friends", entry.Visibility)
	}
	var stored models.ActivityFeed
	if err := db.First(&stored, "id = ?", entry.ID).Error; err != nil {
		t.Fatal(err)
	}
	if string(stored.Metadata) != `{"goal":"Read"}` {
		t.Errorf("metadata = %s", stored.Metadata)
	}
}

func TestRegisterLookupFailureIsNotConflict(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.OpenDB(t, cfg, false)
	svc := NewAuthService(db, cfg, identity.NewBlacklist(10))
	if err := db.Exec("DROP TABLE users").Error; err != nil {
		t.Fatal(err)
	}

	_, err := svc.Register(&dto.RegisterRequest{Username: "rocky", Email: "rocky@example.com", Password: "password123"})
	if err == nil || errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register with a broken users table: got %v", err)
	}
}
