package request_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leavedesk/internal/middleware"
	"leavedesk/internal/request"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type stubRequestService struct {
	createCalls int
	createResp  request.LeaveRequestResponse
}

func (s *stubRequestService) Create(_ context.Context, _ request.CreateLeaveRequest) (request.LeaveRequestResponse, error) {
	s.createCalls++
	return s.createResp, nil
}

func (s *stubRequestService) GetAll(_ context.Context) ([]request.LeaveRequestResponse, error) {
	return nil, nil
}

func (s *stubRequestService) GetByID(_ context.Context, _ string) (request.LeaveRequestResponse, error) {
	return request.LeaveRequestResponse{}, nil
}

func (s *stubRequestService) GetByEmployee(_ context.Context, _ string) ([]request.LeaveRequestResponse, error) {
	return nil, nil
}

func (s *stubRequestService) GetPending(_ context.Context) ([]request.LeaveRequestResponse, error) {
	return nil, nil
}

func (s *stubRequestService) Update(_ context.Context, _ string, _ request.UpdateLeaveRequest) (request.LeaveRequestResponse, error) {
	return request.LeaveRequestResponse{}, nil
}

func (s *stubRequestService) Cancel(_ context.Context, _ string) (request.LeaveRequestResponse, error) {
	return request.LeaveRequestResponse{}, nil
}

func (s *stubRequestService) Delete(_ context.Context, _ string) error {
	return nil
}

func createRouter(svc request.Service, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := request.NewHandlerWithRedis(svc, rdb)
	r := gin.New()
	r.POST("/api/v1/leave-requests", middleware.Idempotency(rdb), handler.Create)
	return r
}

func postLeaveRequest(router *gin.Engine, idempKey string) *httptest.ResponseRecorder {
	body := `{
		"employee_id": "3a9f1f2e-6a3d-4c18-8f52-1df0a8c3b441",
		"leave_type_id": "b51d0c6a-9e74-4c2f-b6d1-42a3f9d8e102",
		"start_date": "2025-06-09",
		"end_date": "2025-06-11",
		"reason": "family"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if idempKey != "" {
		req.Header.Set("Idempotency-Key", idempKey)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Create_CachesResponseAndReleasesLock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &stubRequestService{createResp: request.LeaveRequestResponse{
		ID:        "3f6c2d1a-0b5e-4f7a-9c83-d41e2a6b9f10",
		TotalDays: 3,
		Status:    request.StatusPending,
	}}
	router := createRouter(svc, rdb)

	cacheKey := "idemp:/api/v1/leave-requests::k1"
	lockKey := cacheKey + ":lock"
	payload, err := json.Marshal(svc.createResp)
	assert.NoError(t, err)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
	mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
	mock.ExpectDel(lockKey).SetVal(1)

	w := postLeaveRequest(router, "k1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.createCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Create_RetryAfterSuccessReplays(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &stubRequestService{createResp: request.LeaveRequestResponse{
		ID:     "3f6c2d1a-0b5e-4f7a-9c83-d41e2a6b9f10",
		Status: request.StatusPending,
	}}
	router := createRouter(svc, rdb)

	cacheKey := "idemp:/api/v1/leave-requests::k1"
	payload, err := json.Marshal(svc.createResp)
	assert.NoError(t, err)

	mock.ExpectGet(cacheKey).SetVal(string(payload))

	w := postLeaveRequest(router, "k1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), svc.createResp.ID)
	assert.Equal(t, 0, svc.createCalls, "replay must not re-execute the create")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Create_NoKeySkipsCaching(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &stubRequestService{createResp: request.LeaveRequestResponse{
		ID:     "3f6c2d1a-0b5e-4f7a-9c83-d41e2a6b9f10",
		Status: request.StatusPending,
	}}
	router := createRouter(svc, rdb)

	w := postLeaveRequest(router, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.createCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
