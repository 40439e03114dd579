package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepositories(db)
}

func insertTask(t *testing.T, repos *Repositories, requester string, rate string, name string, created time.Time) *model.Task {
	t.Helper()

	task := &model.Task{
		ID:                uuid.NewString(),
		RequesterID:       requester,
		Category:          constants.CategoryWebDevelopment,
		Name:              name,
		Description:       "Description of " + name,
		ExpectedStartDate: datatypes.Date(baseTime),
		ExpectedHours:     decimal.NewFromInt(5),
		HourlyRate:        decimal.RequireFromString(rate),
		RateCurrency:      constants.CurrencyUSD,
		Status:            constants.TaskStatusOpen,
		Version:           1,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	if err := repos.Tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func insertOffer(t *testing.T, repos *Repositories, taskID, providerID string, status constants.OfferStatus) *model.Offer {
	t.Helper()

	offer := &model.Offer{
		ID:             uuid.NewString(),
		ProviderID:     providerID,
		TaskID:         taskID,
		ProposedRate:   decimal.NewFromInt(30),
		RateCurrency:   constants.CurrencyUSD,
		EstimatedHours: decimal.NewFromInt(4),
		Status:         status,
		Version:        1,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
	if err := repos.Offers.Create(context.Background(), offer); err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	return offer
}

func TestTaskRepository_UpdateRejectsStaleVersion(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)

	stale := *task
	err := repos.Tasks.Update(ctx, task, constants.TaskStatusOpen, map[string]interface{}{
		"name": "Logo v2",
	}, baseTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Version != 2 {
		t.Errorf("expected in-memory version 2, got %d", task.Version)
	}

	err = repos.Tasks.Update(ctx, &stale, constants.TaskStatusOpen, map[string]interface{}{
		"name": "Logo v3",
	}, baseTime.Add(2*time.Minute))
	if !errors.Is(err, ErrOptimisticLock) {
		t.Fatalf("expected ErrOptimisticLock, got %v", err)
	}

	stored, err := repos.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "Logo v2" || stored.Version != 2 {
		t.Errorf("expected name=Logo v2 version=2, got name=%s version=%d", stored.Name, stored.Version)
	}
}

func TestTaskRepository_UpdateChecksStatus(t *testing.T) {
	repos := setupTestDB(t)
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)

	err := repos.Tasks.Update(context.Background(), task, constants.TaskStatusInProgress, map[string]interface{}{
		"status": constants.TaskStatusPendingApproval,
	}, baseTime)
	if !errors.Is(err, ErrOptimisticLock) {
		t.Fatalf("expected ErrOptimisticLock, got %v", err)
	}
}

func TestTaskRepository_FindMissing(t *testing.T) {
	repos := setupTestDB(t)

	if _, err := repos.Tasks.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repos.Offers.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepository_ListFilters(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	insertTask(t, repos, "requester-1", "20", "Fix login bug", baseTime)
	insertTask(t, repos, "requester-1", "55.50", "Design landing page", baseTime.Add(time.Minute))
	newest := insertTask(t, repos, "requester-2", "80", "Login flow audit", baseTime.Add(2*time.Minute))

	minRate := decimal.NewFromInt(50)
	tests := []struct {
		name  string
		query TaskQuery
		total int64
	}{
		{"all", TaskQuery{}, 3},
		{"by requester", TaskQuery{RequesterID: "requester-1"}, 2},
		{"search is case insensitive", TaskQuery{Search: "LOGIN"}, 2},
		{"min rate", TaskQuery{MinRate: &minRate}, 2},
		{"combined", TaskQuery{RequesterID: "requester-1", MinRate: &minRate}, 1},
		{"unknown category", TaskQuery{Category: constants.CategoryDataScience}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := repos.Tasks.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != tt.total || int64(len(tasks)) != tt.total {
				t.Errorf("expected %d tasks, got total=%d len=%d", tt.total, total, len(tasks))
			}
		})
	}

	tasks, total, err := repos.Tasks.List(ctx, TaskQuery{Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(tasks) != 1 {
		t.Fatalf("expected one of three tasks, got total=%d len=%d", total, len(tasks))
	}
	if tasks[0].ID != newest.ID {
		t.Errorf("expected newest task first, got %s", tasks[0].Name)
	}
}

func TestTaskRepository_ListAfterPagesById(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertTask(t, repos, "requester-1", "10", "Task", baseTime)
	}

	seen := map[string]bool{}
	after := ""
	for {
		page, err := repos.Tasks.ListAfter(ctx, after, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page) == 0 {
			break
		}
		for _, task := range page {
			if seen[task.ID] {
				t.Fatalf("task %s returned twice", task.ID)
			}
			seen[task.ID] = true
		}
		after = page[len(page)-1].ID
	}

	if len(seen) != 5 {
		t.Errorf("expected 5 tasks, got %d", len(seen))
	}
}

func TestOfferRepository_CreateDuplicate(t *testing.T) {
	repos := setupTestDB(t)
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)
	insertOffer(t, repos, task.ID, "provider-a", constants.OfferStatusPending)

	dup := &model.Offer{
		ID:             uuid.NewString(),
		ProviderID:     "provider-a",
		TaskID:         task.ID,
		ProposedRate:   decimal.NewFromInt(25),
		RateCurrency:   constants.CurrencyUSD,
		EstimatedHours: decimal.NewFromInt(3),
		Status:         constants.OfferStatusPending,
		Version:        1,
	}
	err := repos.Offers.Create(context.Background(), dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestOfferRepository_TransitionSiblings(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)

	winner := insertOffer(t, repos, task.ID, "provider-a", constants.OfferStatusAccepted)
	pending := insertOffer(t, repos, task.ID, "provider-b", constants.OfferStatusPending)
	withdrawn := insertOffer(t, repos, task.ID, "provider-c", constants.OfferStatusWithdrawn)

	moved, err := repos.Offers.TransitionSiblings(ctx, task.ID, winner.ID,
		[]constants.OfferStatus{constants.OfferStatusPending},
		constants.OfferStatusRejected, baseTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved != 1 {
		t.Errorf("expected 1 sibling moved, got %d", moved)
	}

	want := map[string]constants.OfferStatus{
		winner.ID:    constants.OfferStatusAccepted,
		pending.ID:   constants.OfferStatusRejected,
		withdrawn.ID: constants.OfferStatusWithdrawn,
	}
	for id, status := range want {
		offer, err := repos.Offers.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if offer.Status != status {
			t.Errorf("offer %s: expected %s, got %s", id, status, offer.Status)
		}
	}

	rejected, _ := repos.Offers.FindByID(ctx, pending.ID)
	if rejected.Version != 2 {
		t.Errorf("expected rejected sibling at version 2, got %d", rejected.Version)
	}
}

func TestOfferRepository_ListByRequester(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	mine := insertTask(t, repos, "requester-1", "40", "Mine", baseTime)
	other := insertTask(t, repos, "requester-2", "40", "Other", baseTime)
	insertOffer(t, repos, mine.ID, "provider-a", constants.OfferStatusPending)
	insertOffer(t, repos, mine.ID, "provider-b", constants.OfferStatusRejected)
	insertOffer(t, repos, other.ID, "provider-a", constants.OfferStatusPending)

	offers, err := repos.Offers.List(ctx, OfferQuery{RequesterID: "requester-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("expected 2 offers on requester-1 tasks, got %d", len(offers))
	}

	pending := constants.OfferStatusPending
	offers, err = repos.Offers.List(ctx, OfferQuery{ProviderID: "provider-a", Status: &pending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("expected 2 pending offers from provider-a, got %d", len(offers))
	}
}

func TestFeedbackRepository_LatestByTasksBreaksTies(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)

	entries := []model.TaskCompletionFeedback{
		{Cycle: 1, ActionType: constants.FeedbackRejected, CreatedAt: baseTime},
		{Cycle: 2, ActionType: constants.FeedbackAccepted, CreatedAt: baseTime.Add(time.Hour)},
		{Cycle: 1, ActionType: constants.FeedbackRejected, CreatedAt: baseTime.Add(time.Hour)},
	}
	for i := range entries {
		entries[i].ID = uuid.NewString()
		entries[i].TaskID = task.ID
		entries[i].RequesterID = "requester-1"
		entries[i].Description = "decision"
		if err := repos.Feedback.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("failed to create feedback: %v", err)
		}
	}

	latest, err := repos.Feedback.LatestByTasks(ctx, []string{task.ID, "no-feedback"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("expected one entry, got %d", len(latest))
	}
	if got := latest[task.ID]; got.Cycle != 2 || got.ActionType != constants.FeedbackAccepted {
		t.Errorf("expected cycle 2 accepted, got cycle %d %s", got.Cycle, got.ActionType)
	}

	list, err := repos.Feedback.ListByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 || list[0].ID != entries[1].ID || list[2].ID != entries[0].ID {
		t.Errorf("expected newest-first order, got %+v", list)
	}
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	task := insertTask(t, repos, "requester-1", "40", "Logo", baseTime)

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		locked, err := tx.Tasks.FindForUpdate(ctx, task.ID)
		if err != nil {
			return err
		}
		if err := tx.Tasks.Update(ctx, locked, constants.TaskStatusOpen, map[string]interface{}{
			"name": "Renamed",
		}, baseTime); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	stored, err := repos.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "Logo" || stored.Version != 1 {
		t.Errorf("expected rollback to keep name=Logo version=1, got %s/%d", stored.Name, stored.Version)
	}
}
