package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// MarksHandler 成绩模块 HTTP 处理器
type MarksHandler struct {
	base
	svc service.MarksService
}

// NewMarksHandler 创建 MarksHandler
func NewMarksHandler(svc service.MarksService, b base) *MarksHandler {
	return &MarksHandler{base: b, svc: svc}
}

// Create 录入某学生某科目的成绩
// POST /api/marks
func (h *MarksHandler) Create(c *gin.Context) {
	var req dto.CreateMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMarksError(c, err)
		return
	}
	response.Created(c, resp)
}

// CreateBatch 同一考试类型多科成绩一次提交（全部成功或全部失败）
// POST /api/marks/batch
func (h *MarksHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.svc.CreateBatch(c.Request.Context(), &req)
	if err != nil {
		h.handleMarksError(c, err)
		return
	}
	response.Created(c, list)
}

// ListByStudent 某学生全部成绩，展开科目信息
// GET /api/marks/:studentId
func (h *MarksHandler) ListByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	list, err := h.svc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleMarksError(c, err)
		return
	}
	response.OK(c, list)
}

// Update PUT /api/marks/:id
func (h *MarksHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMarksError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/marks/:id
func (h *MarksHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.handleMarksError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "成绩记录已删除"})
}

func (h *MarksHandler) handleMarksError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMarksNotFound):
		response.NotFound(c, 14001, "成绩记录不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14002, "学生不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 14003, "科目不存在")
	case errors.Is(err, service.ErrInvalidExamType):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrInvalidScore):
		response.BadRequest(c, 14005, err.Error())
	case errors.Is(err, service.ErrDuplicateExamType):
		response.BadRequest(c, 14006, err.Error())
	case errors.Is(err, service.ErrDuplicateSubject):
		response.BadRequest(c, 14007, err.Error())
	case errors.Is(err, service.ErrScoreExists):
		response.Conflict(c, 14008, err.Error())
	default:
		h.internalError(c, err)
	}
}
