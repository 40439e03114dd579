package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/locks"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

const (
	requesterID = "requester-1"
	strangerID  = "requester-2"
	providerA   = "provider-a"
	providerB   = "provider-b"
	providerC   = "provider-c"
)

// stepClock advances one second on every reading so stored timestamps are
// strictly ordered.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

type fixture struct {
	repos      *repository.Repositories
	tasks      *TaskService
	offers     *OfferService
	completion *CompletionService
	audit      *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := repository.NewRepositories(setupTestDB(t))
	locker := locks.NewMemoryTaskLocker(5 * time.Second)
	clock := newStepClock()

	f := &fixture{
		repos:      repos,
		tasks:      NewTaskService(repos, locker, nil),
		offers:     NewOfferService(repos, locker, nil),
		completion: NewCompletionService(repos, locker, nil),
		audit:      NewAuditService(repos, nil),
	}
	f.tasks.now = clock.Now
	f.offers.now = clock.Now
	f.completion.now = clock.Now
	return f
}

func requester(id string) identity.Actor {
	return identity.Actor{ID: id, Kind: constants.ActorRequester}
}

func provider(id string) identity.Actor {
	return identity.Actor{ID: id, Kind: constants.ActorProvider}
}

func sampleTaskFields(name string) TaskFields {
	return TaskFields{
		Category:          constants.CategoryWebDevelopment,
		Name:              name,
		Description:       "Build a landing page",
		ExpectedStartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		ExpectedHours:     decimal.NewFromInt(10),
		HourlyRate:        decimal.RequireFromString("45.50"),
		RateCurrency:      constants.CurrencyUSD,
	}
}

func sampleOfferFields(taskID string) OfferFields {
	return OfferFields{
		TaskID:         taskID,
		ProposedRate:   decimal.RequireFromString("40"),
		EstimatedHours: decimal.NewFromInt(8),
		CoverLetter:    "I have done this before",
	}
}

func (f *fixture) createTask(t *testing.T, name string) *model.Task {
	t.Helper()

	task, err := f.tasks.CreateTask(context.Background(), requesterID, sampleTaskFields(name))
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func (f *fixture) createOffer(t *testing.T, taskID, providerID string) *model.Offer {
	t.Helper()

	offer, err := f.offers.CreateOffer(context.Background(), providerID, sampleOfferFields(taskID))
	if err != nil {
		t.Fatalf("failed to create offer for %s: %v", providerID, err)
	}
	return offer
}

// assignedTask returns an IN_PROGRESS task whose offer from providerA was
// accepted.
func (f *fixture) assignedTask(t *testing.T) (*model.Task, *model.Offer) {
	t.Helper()

	task := f.createTask(t, "Assigned task")
	offer := f.createOffer(t, task.ID, providerA)

	if _, err := f.offers.RespondToOffer(context.Background(), offer.ID, requesterID, DecisionAccept); err != nil {
		t.Fatalf("failed to accept offer: %v", err)
	}
	return task, offer
}

func (f *fixture) reloadTask(t *testing.T, id string) *model.Task {
	t.Helper()

	task, err := f.repos.Tasks.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload task %s: %v", id, err)
	}
	return task
}

func (f *fixture) reloadOffer(t *testing.T, id string) *model.Offer {
	t.Helper()

	offer, err := f.repos.Offers.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload offer %s: %v", id, err)
	}
	return offer
}

func expectKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func expectAuditClean(t *testing.T, f *fixture) {
	t.Helper()

	violations, err := f.audit.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	for _, v := range violations {
		t.Errorf("unexpected violation: %s", v)
	}
}
