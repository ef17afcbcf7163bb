package weekly

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type fixture struct {
	app *fiber.App
	db  *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testutil.Config(t)
	plugin := New()
	db := testutil.OpenDB(t, cfg, true, plugin.Models()...)

	app := fiber.New()
	plugin.RegisterRoutes(app.Group("/api", middleware.JWTProtected(cfg, nil)), db, cfg)
	return &fixture{app: app, db: db}
}

// pickTwoPerCategory returns a valid selection of system goals.
func (f *fixture) pickTwoPerCategory(t *testing.T) []string {
	t.Helper()
	var categories []models.Category
	f.db.Order("sort_order ASC").Find(&categories)
	var ids []string
	for _, c := range categories {
		var goals []models.Goal
		f.db.Where("category_id = ? AND is_custom = ?", c.ID, false).Order("title ASC").Limit(2).Find(&goals)
		for _, g := range goals {
			ids = append(ids, g.ID.String())
		}
	}
	if len(ids) != 12 {
		t.Fatalf("fixture selection has %d goals", len(ids))
	}
	return ids
}

func (f *fixture) selectGoals(t *testing.T, token string, ids []string) WeekGoalsResponse {
	t.Helper()
	status, body := testutil.Do(t, f.app, "POST", "/api/user/select-goals", token, SelectGoalsRequest{GoalIDs: ids})
	if status != fiber.StatusCreated {
		t.Fatalf("select status %d: %s", status, body)
	}
	var resp WeekGoalsResponse
	testutil.Decode(t, body, &resp)
	return resp
}

func (f *fixture) complete(t *testing.T, token string, ug models.UserGoal) CompleteGoalResponse {
	t.Helper()
	status, body := testutil.Do(t, f.app, "PATCH", "/api/user-goals/"+ug.ID.String()+"/complete", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("complete status %d: %s", status, body)
	}
	var resp CompleteGoalResponse
	testutil.Decode(t, body, &resp)
	return resp
}

func TestCategoriesAndGoals(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "rocky")
	token := testutil.Token(t, user.ID)

	status, body := testutil.Do(t, f.app, "GET", "/api/categories", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	var categories []models.Category
	testutil.Decode(t, body, &categories)
	if len(categories) != 6 || categories[0].Name != "Personal" {
		t.Fatalf("categories = %+v", categories)
	}

	path := "/api/categories/" + categories[0].ID.String() + "/goals"
	status, body = testutil.Do(t, f.app, "POST", path, token, CreateGoalRequest{Title: "  Journal nightly "})
	if status != fiber.StatusCreated {
		t.Fatalf("create status %d: %s", status, body)
	}
	var created models.Goal
	testutil.Decode(t, body, &created)
	if !created.IsCustom || created.Title != "Journal nightly" {
		t.Errorf("created = %+v", created)
	}

	if status, _ = testutil.Do(t, f.app, "POST", path, token, CreateGoalRequest{}); status != fiber.StatusBadRequest {
		t.Errorf("empty title status %d, want 400", status)
	}

	var goals []models.Goal
	_, body = testutil.Do(t, f.app, "GET", path, token, nil)
	testutil.Decode(t, body, &goals)
	if len(goals) != 5 {
		t.Errorf("owner sees %d goals, want 5", len(goals))
	}

	other := testutil.CreateUser(t, f.db, "other")
	_, body = testutil.Do(t, f.app, "GET", path, testutil.Token(t, other.ID), nil)
	goals = nil
	testutil.Decode(t, body, &goals)
	if len(goals) != 4 {
		t.Errorf("other user sees %d goals, want 4", len(goals))
	}

	status, _ = testutil.Do(t, f.app, "GET", "/api/categories/00000000-0000-0000-0000-000000000000/goals", token, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown category status %d, want 404", status)
	}
}

func TestSelectGoalsValidation(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "rocky")
	token := testutil.Token(t, user.ID)
	ids := f.pickTwoPerCategory(t)

	status, _ := testutil.Do(t, f.app, "POST", "/api/user/select-goals", token, SelectGoalsRequest{GoalIDs: ids[:11]})
	if status != fiber.StatusBadRequest {
		t.Errorf("11 goals status %d, want 400", status)
	}

	dup := append([]string{}, ids...)
	dup[11] = dup[0]
	if status, _ = testutil.Do(t, f.app, "POST", "/api/user/select-goals", token, SelectGoalsRequest{GoalIDs: dup}); status != fiber.StatusBadRequest {
		t.Errorf("duplicate status %d, want 400", status)
	}

	// three goals from the first category, one from the second
	var extra models.Goal
	f.db.Where("category_id = (SELECT category_id FROM goals WHERE id = ?) AND id NOT IN ?", ids[0], ids[:2]).First(&extra)
	skewed := append([]string{}, ids...)
	skewed[2] = extra.ID.String()
	if status, _ = testutil.Do(t, f.app, "POST", "/api/user/select-goals", token, SelectGoalsRequest{GoalIDs: skewed}); status != fiber.StatusBadRequest {
		t.Errorf("skewed categories status %d, want 400", status)
	}

	var count int64
	f.db.Model(&models.UserGoal{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected selections stored %d rows", count)
	}
}

func TestSelectCompleteAndAchieve(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "rocky")
	token := testutil.Token(t, user.ID)
	ids := f.pickTwoPerCategory(t)

	week := f.selectGoals(t, token, ids)
	if len(week.Goals) != 12 {
		t.Fatalf("selected %d goals", len(week.Goals))
	}

	var order []string
	byCategory := make(map[string][]models.UserGoal)
	for _, g := range week.Goals {
		key := g.Goal.CategoryID.String()
		if _, ok := byCategory[key]; !ok {
			order = append(order, key)
		}
		byCategory[key] = append(byCategory[key], g)
	}
	var paired []models.UserGoal
	for _, key := range order {
		paired = append(paired, byCategory[key]...)
	}

	var last CompleteGoalResponse
	for i := 0; i < 4; i++ {
		last = f.complete(t, token, paired[i])
	}
	if !last.NewAchievement || last.Achievement == nil || last.Achievement.Tier != models.TierTrack {
		t.Fatalf("expected new track achievement: %+v", last)
	}

	for i := 4; i < 8; i++ {
		last = f.complete(t, token, paired[i])
	}
	if last.NewAchievement || last.Progress.Tier != models.TierRock {
		t.Errorf("live tier should be rock without a new row: %+v", last)
	}
	if last.Achievement == nil || last.Achievement.Tier != models.TierTrack {
		t.Errorf("stored tier should stay track: %+v", last.Achievement)
	}

	var achievements int64
	f.db.Model(&models.Achievement{}).Where("user_id = ?", user.ID).Count(&achievements)
	if achievements != 1 {
		t.Errorf("achievement rows = %d, want 1", achievements)
	}

	// toggling twice returns to completed
	undone := f.complete(t, token, paired[0])
	if undone.UserGoal.Completed || undone.UserGoal.CompletedAt != nil {
		t.Errorf("toggle off: %+v", undone.UserGoal)
	}
	redone := f.complete(t, token, paired[0])
	if !redone.UserGoal.Completed || redone.UserGoal.CompletedAt == nil {
		t.Errorf("toggle on: %+v", redone.UserGoal)
	}

	status, body := testutil.Do(t, f.app, "GET", "/api/user/progress", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("progress status %d", status)
	}
	var progress ProgressResponse
	testutil.Decode(t, body, &progress)
	if progress.TotalSelected != 12 || progress.TotalCompleted != 8 || progress.CategoriesCompleted != 4 {
		t.Errorf("progress = %+v", progress)
	}
	if !progress.AchievementStored || progress.Tier != models.TierRock || len(progress.Categories) != 6 {
		t.Errorf("progress = %+v", progress)
	}

	// re-selecting the same ids keeps the set and resets completion
	again := f.selectGoals(t, token, ids)
	if len(again.Goals) != 12 {
		t.Fatalf("reselected %d goals", len(again.Goals))
	}
	for _, g := range again.Goals {
		if g.Completed {
			t.Errorf("goal %s still completed after reselect", g.GoalID)
		}
	}

	status, body = testutil.Do(t, f.app, "GET", "/api/user/achievements", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("achievements status %d", status)
	}
	var list []models.Achievement
	testutil.Decode(t, body, &list)
	if len(list) != 1 {
		t.Errorf("achievements = %d, want 1", len(list))
	}

	var feed int64
	f.db.Model(&models.ActivityFeed{}).Where("user_id = ? AND type = ?", user.ID, models.ActivityAchievementEarned).Count(&feed)
	if feed != 1 {
		t.Errorf("achievement_earned activity rows = %d, want 1", feed)
	}
}

func TestCompleteExplicitAndOwnership(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "rocky")
	token := testutil.Token(t, owner.ID)
	week := f.selectGoals(t, token, f.pickTwoPerCategory(t))
	target := week.Goals[0]

	done := true
	for i := 0; i < 2; i++ {
		status, body := testutil.Do(t, f.app, "PATCH", "/api/user-goals/"+target.ID.String()+"/complete", token, CompleteGoalRequest{Completed: &done})
		if status != fiber.StatusOK {
			t.Fatalf("status %d: %s", status, body)
		}
		var resp CompleteGoalResponse
		testutil.Decode(t, body, &resp)
		if !resp.UserGoal.Completed {
			t.Errorf("explicit completed=true should stay completed on call %d", i+1)
		}
	}

	intruder := testutil.CreateUser(t, f.db, "intruder")
	status, _ := testutil.Do(t, f.app, "PATCH", "/api/user-goals/"+target.ID.String()+"/complete", testutil.Token(t, intruder.ID), nil)
	if status != fiber.StatusNotFound {
		t.Errorf("other user's goal status %d, want 404", status)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "rocky")
	token := testutil.Token(t, user.ID)

	var health models.Category
	f.db.Where("name = ?", "Health").First(&health)

	status, body := testutil.Do(t, f.app, "GET", "/api/goals/recommendations?categoryId="+health.ID.String(), token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	var resp RecommendationsResponse
	testutil.Decode(t, body, &resp)
	if len(resp.Recommendations) != 4 {
		t.Fatalf("got %d recommendations", len(resp.Recommendations))
	}
	for _, r := range resp.Recommendations {
		if r.Score != 20 || r.Reason != "New goal to explore" {
			t.Errorf("fresh user recommendation: %+v", r)
		}
	}

	_, body = testutil.Do(t, f.app, "GET", "/api/goals/recommendations", token, nil)
	resp = RecommendationsResponse{}
	testutil.Decode(t, body, &resp)
	if len(resp.Recommendations) != 12 {
		t.Errorf("unfiltered = %d, want 12", len(resp.Recommendations))
	}

	if status, _ = testutil.Do(t, f.app, "GET", "/api/goals/recommendations?categoryId=nope", token, nil); status != fiber.StatusBadRequest {
		t.Errorf("bad category status %d, want 400", status)
	}
}

func TestStorageFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "rocky")
	logs := testutil.CaptureLogs(t)
	if err := f.db.Exec("DROP TABLE user_goals").Error; err != nil {
		t.Fatal(err)
	}

	status, body := testutil.Do(t, f.app, "GET", "/api/user/goals/week", testutil.Token(t, user.ID), nil)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("status %d: %s", status, body)
	}
	testutil.AssertLogged(t, logs,
		`"level":"ERROR"`,
		`"msg":"Failed to fetch weekly goals"`,
		`"action":"GET /api/user/goals/week"`,
		`"user_id":"`+user.ID.String()+`"`,
		`no such table`,
	)
}
