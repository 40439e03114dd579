package services

import (
	"context"
	"testing"
	"time"

	"task-marketplace.com/task-marketplace/internal/constants"
	"task-marketplace.com/task-marketplace/internal/lifecycle"
)

func TestAuditService_CleanStoreHasNoViolations(t *testing.T) {
	f := newFixture(t)
	f.audit.batchSize = 2

	for i := 0; i < 5; i++ {
		f.createTask(t, "Batch")
	}
	f.assignedTask(t)

	expectAuditClean(t, f)
}

func TestAuditService_ReportsBrokenCoupling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, "Corrupted")
	err := f.repos.Tasks.Update(ctx, task, constants.TaskStatusOpen, map[string]interface{}{
		"status": constants.TaskStatusInProgress,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to corrupt task: %v", err)
	}

	violations, err := f.audit.RunOnce(ctx)
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}

	rules := map[string]bool{}
	for _, v := range violations {
		if v.TaskID != task.ID {
			t.Errorf("unexpected violation on task %s", v.TaskID)
		}
		rules[v.Rule] = true
	}
	if !rules[lifecycle.RuleAcceptedProvider] {
		t.Errorf("expected %s violation, got %v", lifecycle.RuleAcceptedProvider, violations)
	}
	if !rules[lifecycle.RuleCoupledStatus] {
		t.Errorf("expected %s violation, got %v", lifecycle.RuleCoupledStatus, violations)
	}
}

func TestAuditService_StartAndShutdown(t *testing.T) {
	f := newFixture(t)

	if err := f.audit.Start("not a schedule"); err == nil {
		t.Error("expected invalid schedule to be rejected")
	}

	if err := f.audit.Start("@every 1h"); err != nil {
		t.Fatalf("failed to start audit: %v", err)
	}
	if err := f.audit.Start("@every 1h"); err == nil {
		t.Error("expected second start to fail")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f.audit.Shutdown(ctx)
}
