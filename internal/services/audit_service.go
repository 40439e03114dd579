package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"task-marketplace.com/task-marketplace/internal/lifecycle"
	"task-marketplace.com/task-marketplace/internal/logging"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

const auditBatchSize = 100

// AuditService walks every task and checks the task/offer coupling rules.
// It can run once or on a cron schedule.
type AuditService struct {
	repos     *repository.Repositories
	logger    *log.Logger
	batchSize int

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

func NewAuditService(repos *repository.Repositories, logger *log.Logger) *AuditService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuditService{
		repos:     repos,
		logger:    logger,
		batchSize: auditBatchSize,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// RunOnce checks every stored task and returns the violations found.
func (a *AuditService) RunOnce(ctx context.Context) ([]lifecycle.Violation, error) {
	var (
		violations []lifecycle.Violation
		checked    int
		afterID    string
	)

	for {
		tasks, err := a.repos.Tasks.ListAfter(ctx, afterID, a.batchSize)
		if err != nil {
			return nil, fmt.Errorf("audit: list tasks: %w", err)
		}
		if len(tasks) == 0 {
			break
		}

		found, err := a.checkBatch(ctx, tasks)
		if err != nil {
			return nil, err
		}
		violations = append(violations, found...)

		checked += len(tasks)
		afterID = tasks[len(tasks)-1].ID
		if len(tasks) < a.batchSize {
			break
		}
	}

	for _, v := range violations {
		a.logger.Printf("audit: %s", v)
	}
	a.logger.Printf("audit: checked %d tasks, %d violations", checked, len(violations))
	return violations, nil
}

func (a *AuditService) checkBatch(ctx context.Context, tasks []model.Task) ([]lifecycle.Violation, error) {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}

	offers, err := a.repos.Offers.ListByTaskIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("audit: list offers: %w", err)
	}

	byTask := make(map[string][]model.Offer, len(tasks))
	for _, offer := range offers {
		byTask[offer.TaskID] = append(byTask[offer.TaskID], offer)
	}

	var violations []lifecycle.Violation
	for _, task := range tasks {
		violations = append(violations, lifecycle.CheckTask(task, byTask[task.ID])...)
	}
	return violations, nil
}

// Start schedules RunOnce on schedule, a standard five-field cron expression or a
// descriptor such as "@every 10m".
func (a *AuditService) Start(schedule string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("audit already scheduled")
	}

	_, err := a.cron.AddFunc(schedule, func() {
		if _, err := a.RunOnce(context.Background()); err != nil {
			a.logger.Printf("audit failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule audit %q: %w", schedule, err)
	}

	a.cron.Start()
	a.running = true
	a.logger.Printf("audit scheduled with %q", schedule)
	return nil
}

// Shutdown stops the schedule and waits for a running pass, or for ctx.
func (a *AuditService) Shutdown(ctx context.Context) {
	a.mu.Lock()
	running := a.running
	a.running = false
	a.mu.Unlock()

	if !running {
		return
	}

	select {
	case <-a.cron.Stop().Done():
		a.logger.Println("audit scheduler shut down cleanly")
	case <-ctx.Done():
		a.logger.Println("audit scheduler shutdown timed out")
	}
}
