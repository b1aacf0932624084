package approval

import "time"

type ProcessStepRequest struct {
	Approved bool    `json:"approved"`
	Comments *string `json:"comments" binding:"omitempty,max=500"`
}

type StepResponse struct {
	ID             string     `json:"id"`
	LeaveRequestID string     `json:"leave_request_id"`
	ApproverID     string     `json:"approver_id"`
	StepOrder      int        `json:"step_order"`
	Status         string     `json:"status"`
	Comments       *string    `json:"comments,omitempty"`
	ActionDate     *time.Time `json:"action_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toStepResponse(s *ApprovalStep) StepResponse {
	return StepResponse{
		ID:             s.ID.String(),
		LeaveRequestID: s.LeaveRequestID.String(),
		ApproverID:     s.ApproverID.String(),
		StepOrder:      s.StepOrder,
		Status:         s.Status,
		Comments:       s.Comments,
		ActionDate:     s.ActionDate,
		CreatedAt:      s.CreatedAt,
	}
}

func toStepResponses(steps []ApprovalStep) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for i := range steps {
		out = append(out, toStepResponse(&steps[i]))
	}
	return out
}
