package leave

import (
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Request(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	h.logger.Debug("http request leave", zap.String("employee_id", employeeID))

	var req RequestLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http request leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", apperror.ValidationDetails(err))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	var q MyLeaveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", apperror.ValidationDetails(err))
		return
	}

	resp, err := h.service.ListMine(c.Request.Context(), c.GetString("employee_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Cancel(c.Request.Context(), c.GetString("employee_id"), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListAll(c *gin.Context) {
	var q ListLeaveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", apperror.ValidationDetails(err))
		return
	}

	resp, err := h.service.ListAll(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	start, end := response.Window(len(resp.Requests), page, pageSize)
	resp.Requests = resp.Requests[start:end]

	meta := response.NewPaginationMeta(int64(resp.Summary.Total), page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	adminID := c.GetString("employee_id")

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", apperror.ValidationDetails(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), adminID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
