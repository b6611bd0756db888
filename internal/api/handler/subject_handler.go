package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// SubjectHandler 科目模块 HTTP 处理器
type SubjectHandler struct {
	base
	svc service.SubjectService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(svc service.SubjectService, b base) *SubjectHandler {
	return &SubjectHandler{base: b, svc: svc}
}

// Create POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.Created(c, resp)
}

// List GET /api/subjects?branch=&semester=
func (h *SubjectHandler) List(c *gin.Context) {
	var req dto.SubjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, list)
}

// Update PUT /api/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "科目已删除"})
}

func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13001, "科目不存在")
	case errors.Is(err, service.ErrSubjectCodeExists):
		response.Conflict(c, 13002, "科目代码已存在")
	default:
		h.internalError(c, err)
	}
}
