package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-marketplace.com/task-marketplace/internal/constants"
	dto "task-marketplace.com/task-marketplace/internal/data_models"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/locks"
	"task-marketplace.com/task-marketplace/internal/logging"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
	"task-marketplace.com/task-marketplace/internal/services"
)

// mockDirectory treats the bearer token as a key into a fixed actor table.
type mockDirectory map[string]identity.Actor

func (m mockDirectory) Resolve(_ context.Context, credential string) (identity.Actor, error) {
	actor, ok := m[credential]
	if !ok {
		return identity.Actor{}, identity.ErrInvalidCredential
	}
	return actor, nil
}

var directory = mockDirectory{
	"owner-token":    {ID: "owner", Kind: constants.ActorRequester},
	"stranger-token": {ID: "stranger", Kind: constants.ActorRequester},
	"alice-token":    {ID: "alice", Kind: constants.ActorProvider},
	"bob-token":      {ID: "bob", Kind: constants.ActorProvider},
}

func setupServer(t *testing.T, rateLimit int) *echo.Echo {
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

	repos := repository.NewRepositories(db)
	locker := locks.NewMemoryTaskLocker(5 * time.Second)
	discard := logging.Discard()

	h := NewHandler(
		services.NewTaskService(repos, locker, discard),
		services.NewOfferService(repos, locker, discard),
		services.NewCompletionService(repos, locker, discard),
	)

	e := echo.New()
	Register(e, h, directory, rateLimit, discard)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	expectStatus(t, rec, status)
	if got := decode[dto.ErrorResponse](t, rec); got.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, got.Code, got.Message)
	}
}

const createTaskBody = `{
	"category": "Web Development",
	"task_name": "Landing page",
	"description": "Build a landing page",
	"expected_start_date": "2026-04-01",
	"expected_working_hours": 10,
	"hourly_rate": 45.5,
	"rate_currency": "USD"
}`

func createTask(t *testing.T, e *echo.Echo) dto.TaskResponse {
	t.Helper()

	rec := do(t, e, http.MethodPost, "/tasks", "owner-token", createTaskBody)
	expectStatus(t, rec, http.StatusCreated)
	return decode[dto.TaskResponse](t, rec)
}

func createOffer(t *testing.T, e *echo.Echo, token, taskID string) dto.OfferResponse {
	t.Helper()

	body := fmt.Sprintf(`{"task_id": %q, "proposed_rate": 40, "estimated_hours": 8, "cover_letter": "hire me"}`, taskID)
	rec := do(t, e, http.MethodPost, "/offers", token, body)
	expectStatus(t, rec, http.StatusCreated)
	return decode[dto.OfferResponse](t, rec)
}

func TestHandler_Health(t *testing.T) {
	e := setupServer(t, 100)

	rec := do(t, e, http.MethodGet, "/health", "", "")
	expectStatus(t, rec, http.StatusOK)

	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected a request id header")
	}
}

func TestHandler_Authentication(t *testing.T) {
	e := setupServer(t, 100)

	expectError(t, do(t, e, http.MethodGet, "/tasks", "", ""), http.StatusUnauthorized, "UNAUTHORIZED")
	expectError(t, do(t, e, http.MethodGet, "/tasks", "forged", ""), http.StatusUnauthorized, "UNAUTHORIZED")
	expectError(t, do(t, e, http.MethodPost, "/tasks", "alice-token", createTaskBody), http.StatusForbidden, "FORBIDDEN_ROLE")
}

func TestHandler_CreateTaskValidation(t *testing.T) {
	e := setupServer(t, 100)

	expectError(t, do(t, e, http.MethodPost, "/tasks", "owner-token", `{"task_name":`), http.StatusBadRequest, "INVALID_JSON")

	body := strings.Replace(createTaskBody, `"2026-04-01"`, `"next tuesday"`, 1)
	expectError(t, do(t, e, http.MethodPost, "/tasks", "owner-token", body), http.StatusBadRequest, "VALIDATION_FAILED")

	body = strings.Replace(createTaskBody, `"USD"`, `"EUR"`, 1)
	expectError(t, do(t, e, http.MethodPost, "/tasks", "owner-token", body), http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestHandler_TaskCRUD(t *testing.T) {
	e := setupServer(t, 100)

	task := createTask(t, e)
	if task.Status != constants.TaskStatusOpen || task.ExpectedStartDate != "2026-04-01" {
		t.Errorf("unexpected task %+v", task)
	}

	rec := do(t, e, http.MethodGet, "/tasks?page=1&limit=5&status=open", "owner-token", "")
	expectStatus(t, rec, http.StatusOK)
	list := decode[dto.TaskListResponse](t, rec)
	if list.Total != 1 || list.TotalPages != 1 || list.Limit != 5 {
		t.Errorf("unexpected list %+v", list)
	}

	expectError(t, do(t, e, http.MethodGet, "/tasks?status=archived", "owner-token", ""), http.StatusBadRequest, "VALIDATION_FAILED")
	expectError(t, do(t, e, http.MethodGet, "/tasks/"+task.ID, "stranger-token", ""), http.StatusNotFound, "TASK_NOT_FOUND")

	rec = do(t, e, http.MethodPatch, "/tasks/"+task.ID, "owner-token", `{"task_name": "Renamed"}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[dto.TaskResponse](t, rec); got.TaskName != "Renamed" {
		t.Errorf("expected renamed task, got %q", got.TaskName)
	}

	expectStatus(t, do(t, e, http.MethodDelete, "/tasks/"+task.ID, "owner-token", ""), http.StatusNoContent)
	expectError(t, do(t, e, http.MethodGet, "/tasks/"+task.ID, "owner-token", ""), http.StatusNotFound, "TASK_NOT_FOUND")
}

func TestHandler_OfferLifecycle(t *testing.T) {
	e := setupServer(t, 100)

	task := createTask(t, e)
	alice := createOffer(t, e, "alice-token", task.ID)
	bob := createOffer(t, e, "bob-token", task.ID)

	body := fmt.Sprintf(`{"task_id": %q, "proposed_rate": 40, "estimated_hours": 8}`, task.ID)
	expectError(t, do(t, e, http.MethodPost, "/offers", "alice-token", body), http.StatusConflict, "DUPLICATE_OFFER")

	expectError(t, do(t, e, http.MethodPatch, "/offers/"+alice.ID+"/respond", "stranger-token", `{"response": "accept"}`),
		http.StatusForbidden, "NOT_TASK_OWNER")
	expectError(t, do(t, e, http.MethodPatch, "/offers/"+alice.ID+"/respond", "owner-token", `{"response": "maybe"}`),
		http.StatusBadRequest, "VALIDATION_FAILED")

	rec := do(t, e, http.MethodPatch, "/offers/"+alice.ID+"/respond", "owner-token", `{"response": "accept"}`)
	expectStatus(t, rec, http.StatusOK)
	accepted := decode[dto.OfferResponse](t, rec)
	if accepted.Status != constants.OfferStatusAccepted || accepted.TaskStatus == nil || *accepted.TaskStatus != constants.TaskStatusInProgress {
		t.Errorf("unexpected accepted offer %+v", accepted)
	}

	rec = do(t, e, http.MethodGet, "/offers/status/rejected", "bob-token", "")
	expectStatus(t, rec, http.StatusOK)
	list := decode[dto.OfferListResponse](t, rec)
	if list.Count != 1 || list.Offers[0].ID != bob.ID {
		t.Errorf("expected bob's offer to be rejected, got %+v", list)
	}

	expectError(t, do(t, e, http.MethodPatch, "/offers/"+bob.ID+"/respond", "owner-token", `{"response": "accept"}`),
		http.StatusConflict, "OFFER_NOT_PENDING")
	expectError(t, do(t, e, http.MethodDelete, "/tasks/"+task.ID, "owner-token", ""), http.StatusConflict, "TASK_NOT_DELETABLE")
}

func TestHandler_CompletionHandshake(t *testing.T) {
	e := setupServer(t, 100)

	task := createTask(t, e)
	offer := createOffer(t, e, "alice-token", task.ID)
	expectStatus(t, do(t, e, http.MethodPatch, "/offers/"+offer.ID+"/respond", "owner-token", `{"response": "accept"}`), http.StatusOK)

	expectError(t, do(t, e, http.MethodPost, "/tasks/"+task.ID+"/progress", "bob-token", `{"progress_description": "hi"}`),
		http.StatusNotFound, "TASK_NOT_ASSIGNED")
	expectStatus(t, do(t, e, http.MethodPost, "/tasks/"+task.ID+"/progress", "alice-token", `{"progress_description": "half way"}`),
		http.StatusCreated)

	rec := do(t, e, http.MethodGet, "/tasks/"+task.ID+"/progress", "owner-token", "")
	expectStatus(t, rec, http.StatusOK)
	if entries := decode[[]dto.ProgressResponse](t, rec); len(entries) != 1 {
		t.Errorf("expected 1 progress entry, got %d", len(entries))
	}

	expectStatus(t, do(t, e, http.MethodPost, "/tasks/"+task.ID+"/complete", "alice-token", ""), http.StatusOK)

	rec = do(t, e, http.MethodPost, "/tasks/"+task.ID+"/reject", "owner-token", `{"description": "missing footer"}`)
	expectStatus(t, rec, http.StatusOK)
	decision := decode[dto.DecisionResponse](t, rec)
	if decision.Task.Status != constants.TaskStatusInProgress || decision.Feedback.ActionType != constants.FeedbackRejected {
		t.Errorf("unexpected rejection %+v", decision)
	}

	expectError(t, do(t, e, http.MethodPost, "/tasks/"+task.ID+"/accept", "owner-token", `{"description": "early"}`),
		http.StatusConflict, "TASK_NOT_PENDING_APPROVAL")

	expectStatus(t, do(t, e, http.MethodPost, "/tasks/"+task.ID+"/complete", "alice-token", ""), http.StatusOK)
	rec = do(t, e, http.MethodPost, "/tasks/"+task.ID+"/accept", "owner-token", `{"description": "great"}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[dto.DecisionResponse](t, rec); got.Task.Status != constants.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", got.Task.Status)
	}

	rec = do(t, e, http.MethodGet, "/tasks/"+task.ID+"/feedback", "alice-token", "")
	expectStatus(t, rec, http.StatusOK)
	feedback := decode[[]dto.FeedbackResponse](t, rec)
	if len(feedback) != 2 || feedback[0].ActionType != constants.FeedbackAccepted {
		t.Errorf("expected 2 entries newest first, got %+v", feedback)
	}

	rec = do(t, e, http.MethodGet, "/offers?task_id="+task.ID, "alice-token", "")
	expectStatus(t, rec, http.StatusOK)
	offers := decode[dto.OfferListResponse](t, rec)
	if offers.Count != 1 || offers.Offers[0].LatestFeedbackAction == nil || *offers.Offers[0].LatestFeedbackAction != constants.FeedbackAccepted {
		t.Errorf("expected latest feedback action accepted, got %+v", offers)
	}
}

func TestHandler_RateLimit(t *testing.T) {
	e := setupServer(t, 2)

	for i := 0; i < 2; i++ {
		expectStatus(t, do(t, e, http.MethodGet, "/tasks", "owner-token", ""), http.StatusOK)
	}
	expectError(t, do(t, e, http.MethodGet, "/tasks", "owner-token", ""), http.StatusTooManyRequests, "RATE_LIMITED")

	expectStatus(t, do(t, e, http.MethodGet, "/tasks", "alice-token", ""), http.StatusOK)
}
