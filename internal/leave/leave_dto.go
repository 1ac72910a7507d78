package leave

import "time"

type RequestLeaveRequest struct {
	LeaveType    string  `json:"leave_type" binding:"required,oneof=annual sick family maternity paternity unpaid"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	Reason       string  `json:"reason" binding:"max=1000"`
	DocumentURL  *string `json:"document_url" binding:"omitempty,url"`
	DocumentName *string `json:"document_name" binding:"omitempty,max=255"`
}

type DecideLeaveRequest struct {
	Status   string  `json:"status" binding:"required"`
	Comments *string `json:"comments" binding:"omitempty,max=1000"`
}

type MyLeaveQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Year   int    `form:"year" binding:"omitempty,min=1970,max=9999"`
}

type ListLeaveQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Department string `form:"department"`
}

type EmployeeSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Position   string  `json:"position"`
}

type LeaveResponse struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	Employee     *EmployeeSummary `json:"employee,omitempty"`
	LeaveType    string           `json:"leave_type"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	TotalDays    int              `json:"total_days"`
	Reason       string           `json:"reason"`
	DocumentURL  *string          `json:"document_url,omitempty"`
	DocumentName *string          `json:"document_name,omitempty"`
	Status       string           `json:"status"`
	ApprovedBy   *string          `json:"approved_by,omitempty"`
	ApprovedAt   *string          `json:"approved_at,omitempty"`
	Comments     *string          `json:"comments,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type LeaveSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type LeaveListResponse struct {
	Requests []LeaveResponse `json:"requests"`
	Summary  LeaveSummary    `json:"summary"`
}
