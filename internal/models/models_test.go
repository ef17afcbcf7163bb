package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestTierRank(t *testing.T) {
	order := []Tier{TierNone, TierTrack, TierRock, TierSlayed}
	for i, tier := range order {
		if tier.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", tier, tier.Rank(), i)
		}
	}
	if Tier("bogus").Rank() != 0 {
		t.Error("unknown tier should rank as none")
	}
}

func TestFriendshipOther(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := Friendship{RequesterID: a, AddresseeID: b}
	if f.Other(a) != b || f.Other(b) != a {
		t.Error("Other should return the opposite party")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{Username: "jo", FirstName: "Jo", LastName: "March"}, "Jo March"},
		{User{Username: "jo", FirstName: "Jo"}, "Jo"},
		{User{Username: "jo"}, "jo"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestUserGoalCategoryName(t *testing.T) {
	ug := UserGoal{}
	if ug.CategoryName() != "" {
		t.Error("expected empty name without preload")
	}
	ug.Goal = &Goal{Category: &Category{Name: "Health"}}
	if ug.CategoryName() != "Health" {
		t.Errorf("CategoryName() = %q", ug.CategoryName())
	}
}
