package approval_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavedesk/internal/approval"
	approvalerrors "leavedesk/internal/approval/errors"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	processResp approval.StepResponse
	processErr  error
	pending     []approval.StepResponse

	gotApproverID string
	gotStepID     string
	gotReq        approval.ProcessStepRequest
}

func (s *stubService) Initiate(context.Context, string) (int, error) { return 0, nil }

func (s *stubService) ProcessStep(_ context.Context, approverID, stepID string, req approval.ProcessStepRequest) (approval.StepResponse, error) {
	s.gotApproverID = approverID
	s.gotStepID = stepID
	s.gotReq = req
	return s.processResp, s.processErr
}

func (s *stubService) GetPendingApprovals(context.Context, string) ([]approval.StepResponse, error) {
	return s.pending, nil
}

func (s *stubService) GetSteps(context.Context, string) ([]approval.StepResponse, error) {
	return s.pending, nil
}

func handlerRouter(svc approval.Service, employeeID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextEmployeeID, employeeID)
	})
	h := approval.NewHandler(svc)
	r.POST("/approvals/:stepId/process", h.ProcessStep)
	r.GET("/approvals/pending", h.GetPending)
	return r
}

func TestHandler_ProcessStep(t *testing.T) {
	svc := &stubService{
		processResp: approval.StepResponse{ID: "step-1", Status: approval.StepApproved},
	}
	router := handlerRouter(svc, "emp-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/approvals/step-1/process",
		strings.NewReader(`{"approved":true,"comments":"ok by me"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.gotApproverID)
	assert.Equal(t, "step-1", svc.gotStepID)
	assert.True(t, svc.gotReq.Approved)
	if assert.NotNil(t, svc.gotReq.Comments) {
		assert.Equal(t, "ok by me", *svc.gotReq.Comments)
	}

	var body struct {
		Ok   bool                  `json:"ok"`
		Data approval.StepResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Ok)
	assert.Equal(t, approval.StepApproved, body.Data.Status)
}

func TestHandler_ProcessStep_ServiceError(t *testing.T) {
	svc := &stubService{processErr: approvalerrors.ErrPrecedenceViolation}
	router := handlerRouter(svc, "emp-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/approvals/step-1/process",
		strings.NewReader(`{"approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestHandler_ProcessStep_MalformedBody(t *testing.T) {
	svc := &stubService{}
	router := handlerRouter(svc, "emp-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/approvals/step-1/process",
		strings.NewReader(`{"approved":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetPending(t *testing.T) {
	svc := &stubService{pending: []approval.StepResponse{
		{ID: "step-1", Status: approval.StepPending},
	}}
	router := handlerRouter(svc, "emp-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/approvals/pending", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "step-1")
}
