package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	config "farm-task-service.com/farm-task-service/internal/configs"
	middleware "farm-task-service.com/farm-task-service/internal/http/middlewares"
	model "farm-task-service.com/farm-task-service/internal/models"
	"farm-task-service.com/farm-task-service/internal/queue"
	repository "farm-task-service.com/farm-task-service/internal/repositories"
	"farm-task-service.com/farm-task-service/internal/services"
)

const (
	testSecret     = "test-secret"
	harvestTypeID  = 7
	ownerUserID    = "owner-1"
	workerUserID   = "worker-1"
	otherWorkerID  = "worker-2"
	testRateLimits = 1000
)

type testServer struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.NewDatabaseClient(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.Seed(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger, _ := logtest.NewNullLogger()
	taskService := services.NewTaskService(
		repository.NewTaskRepository(db),
		queue.NewLocalClaimLocker(time.Minute),
		logger,
	)

	e := echo.New()
	Register(e, NewHandler(taskService, repository.NewNotificationRepository(db)), testRateLimits, testSecret, logger)

	return &testServer{e: e, db: db}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = string(raw)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		token, err := middleware.SignToken(testSecret, userID, nil)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createTask(t *testing.T, due time.Time, extra map[string]interface{}) int {
	t.Helper()

	body := map[string]interface{}{
		"task_type_id": harvestTypeID,
		"due_date":     due.UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		body[k] = v
	}

	rec := s.do(t, http.MethodPost, "/tasks", ownerUserID, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int(decode(t, rec)["task_id"].(float64))
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/tasks/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := middleware.SignToken("another-secret", ownerUserID, nil)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/tasks/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing or invalid bearer token", decode(t, rec)["message"])
}

func TestCreateAndGetTask(t *testing.T) {
	s := newTestServer(t)

	id := s.createTask(t, time.Now().Add(24*time.Hour), map[string]interface{}{
		"notes":       "north field",
		"coordinates": map[string]float64{"lat": 49.2, "lng": -123.1},
		"detail":      map[string]interface{}{"projected_quantity": 120.5, "harvest_everything": true},
	})

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d", id), workerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	task := decode(t, rec)
	assert.Equal(t, "north field", task["notes"])
	assert.Equal(t, ownerUserID, task["owner_user_id"])
	assert.Equal(t, ownerUserID, task["created_by_user_id"])

	detail := task["detail"].(map[string]interface{})
	assert.Equal(t, 120.5, detail["projected_quantity"])
	assert.Equal(t, true, detail["harvest_everything"])

	taskType := task["task_type"].(map[string]interface{})
	assert.Equal(t, "HARVEST_TASK", taskType["task_translation_key"])
}

func TestCreateTaskRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	custom := model.TaskType{TaskName: "Fence repair", TaskTranslationKey: "FENCE_REPAIR"}
	require.NoError(t, s.db.Create(&custom).Error)

	cases := []struct {
		name string
		body interface{}
		code int
	}{
		{"missing type", map[string]interface{}{"due_date": "2024-03-10"}, http.StatusBadRequest},
		{"bad date", map[string]interface{}{"task_type_id": harvestTypeID, "due_date": "10/03/2024"}, http.StatusBadRequest},
		{"unknown type", map[string]interface{}{"task_type_id": 9999, "due_date": "2024-03-10"}, http.StatusUnprocessableEntity},
		{"detail on custom type", map[string]interface{}{
			"task_type_id": custom.ID,
			"due_date":     "2024-03-10",
			"detail":       map[string]interface{}{"type": "x"},
		}, http.StatusBadRequest},
		{"happiness out of range", map[string]interface{}{
			"task_type_id": harvestTypeID,
			"due_date":     "2024-03-10",
			"happiness":    9,
		}, http.StatusBadRequest},
		{"not json", "{", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/tasks", ownerUserID, tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestGetTaskErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/tasks/abc", workerUserID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/tasks/999", workerUserID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/tasks/999/status", workerUserID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/tasks/999/type", workerUserID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/tasks/999/assignee", workerUserID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAssignAndResolveAssignee(t *testing.T) {
	s := newTestServer(t)

	require.NoError(t, s.db.Create(&model.User{ID: workerUserID}).Error)
	require.NoError(t, s.db.Create(&model.UserFarm{UserID: workerUserID, FarmID: "farm-a", RoleID: 3, Status: "Active"}).Error)

	id := s.createTask(t, time.Now().Add(24*time.Hour), map[string]interface{}{"wage_at_moment": 18.5})

	rec := s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/assignee", id), ownerUserID,
		map[string]interface{}{"assignee_user_id": workerUserID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, workerUserID, decode(t, rec)["assignee_user_id"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d/assignee?farm_id=farm-a", id), ownerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assignee := decode(t, rec)
	assert.Equal(t, workerUserID, assignee["assignee_user_id"])
	assert.Equal(t, float64(3), assignee["assignee_role_id"])
	assert.Equal(t, 18.5, assignee["wage_at_moment"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d/status", id), ownerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "planned", decode(t, rec)["status"])

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/assignee", id), ownerUserID,
		map[string]interface{}{"assignee_user_id": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["assignee_user_id"])

	rec = s.do(t, http.MethodPatch, "/tasks/999/assignee", ownerUserID,
		map[string]interface{}{"assignee_user_id": workerUserID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkAssignAndQueries(t *testing.T) {
	s := newTestServer(t)

	today := time.Now().UTC()
	first := s.createTask(t, today, nil)
	second := s.createTask(t, today.Add(48*time.Hour), nil)

	rec := s.do(t, http.MethodPost, "/tasks/due-this-week", ownerUserID,
		map[string]interface{}{"task_ids": []int{first, second}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), decode(t, rec)["count"])

	rec = s.do(t, http.MethodPost, "/tasks/available", workerUserID,
		map[string]interface{}{"task_ids": []int{first, second}, "date": today.Format(time.DateOnly)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = s.do(t, http.MethodPatch, "/tasks/assignee", ownerUserID,
		map[string]interface{}{"task_ids": []int{first, second, 999}, "assignee_user_id": workerUserID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), decode(t, rec)["updated"])

	rec = s.do(t, http.MethodPost, "/tasks/due-today", workerUserID,
		map[string]interface{}{"task_ids": []int{first, second}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	due := decode(t, rec)
	assert.Equal(t, workerUserID, due["user_id"])
	assert.Equal(t, true, due["has_tasks_due_today"])

	rec = s.do(t, http.MethodPost, "/tasks/due-today", workerUserID,
		map[string]interface{}{"user_id": otherWorkerID, "task_ids": []int{first, second}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["has_tasks_due_today"])

	rec = s.do(t, http.MethodPost, "/tasks/available", workerUserID,
		map[string]interface{}{"task_ids": []int{first}, "date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/tasks/assignee", ownerUserID,
		map[string]interface{}{"task_ids": []int{-1}, "assignee_user_id": workerUserID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimCompleteAbandonDelete(t *testing.T) {
	s := newTestServer(t)

	id := s.createTask(t, time.Now().Add(2*time.Hour), nil)

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/tasks/%d/claim", id), workerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, workerUserID, decode(t, rec)["assignee_user_id"])

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/tasks/%d/claim", id), otherWorkerID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", id), workerUserID,
		map[string]interface{}{"happiness": 4, "duration": 35, "completion_notes": "done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decode(t, rec)["complete_date"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d/status", id), workerUserID, nil)
	assert.Equal(t, "completed", decode(t, rec)["status"])

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/abandon", id), workerUserID,
		map[string]interface{}{"abandonment_reason": "WEATHER"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	other := s.createTask(t, time.Now().Add(2*time.Hour), nil)
	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/abandon", other), ownerUserID,
		map[string]interface{}{"abandonment_reason": "OTHER"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/abandon", other), ownerUserID,
		map[string]interface{}{"abandonment_reason": "OTHER", "other_abandonment_reason": "hail"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "OTHER", decode(t, rec)["abandonment_reason"])

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", other), ownerUserID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", other), ownerUserID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d", other), ownerUserID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLocationTasks(t *testing.T) {
	s := newTestServer(t)

	location := model.Location{ID: uuid.NewString(), FarmID: "farm-a", Name: "Greenhouse"}
	require.NoError(t, s.db.Create(&location).Error)

	due := time.Now().UTC().AddDate(0, 0, 2)
	s.createTask(t, due, map[string]interface{}{"location_ids": []string{location.ID}})
	s.createTask(t, due, map[string]interface{}{"location_ids": []string{location.ID}})

	rec := s.do(t, http.MethodGet, "/locations/"+location.ID+"/tasks", workerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	grouped := body["tasks"].(map[string]interface{})
	assert.Len(t, grouped[due.Format(time.DateOnly)], 2)
}

func TestListNotifications(t *testing.T) {
	s := newTestServer(t)

	notifications := repository.NewNotificationRepository(s.db)
	_, err := notifications.CreateOnce(t.Context(), workerUserID, "farm-a", model.NotificationDailyTasksDue, time.Now())
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/notifications", workerUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = s.do(t, http.MethodGet, "/notifications", otherWorkerID, nil)
	assert.Equal(t, float64(0), decode(t, rec)["count"])
}
