package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	base
	svc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(svc service.StudentService, b base) *StudentHandler {
	return &StudentHandler{base: b, svc: svc}
}

// Create 新增学生
// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 学生列表（branch/batch/graduation_year/semester 过滤）
// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, list)
}

// Update 部分更新学生信息
// PUT /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除学生
// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "学生已删除"})
}

// Import Excel 批量导入学生
// POST /api/students/import（multipart/form-data, field="file"）
func (h *StudentHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12100, "请上传 Excel 文件（字段名 file）")
		return
	}
	defer file.Close()

	rows, err := h.svc.ParseImportFile(file)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	result, err := h.svc.Import(c.Request.Context(), rows)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12001, "学生不存在")
	case errors.Is(err, service.ErrStudentRegExists):
		response.Conflict(c, 12002, "注册号已存在")
	case errors.Is(err, service.ErrStudentRollNoExists):
		response.Conflict(c, 12003, "序号已存在")
	case errors.Is(err, service.ErrStudentExists):
		response.Conflict(c, 12004, "学生已存在")
	case errors.Is(err, service.ErrInvalidGraduationYear):
		response.BadRequest(c, 12005, err.Error())
	case errors.Is(err, service.ErrInvalidBatch):
		response.BadRequest(c, 12006, err.Error())
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows),
		errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12101, err.Error())
	default:
		h.internalError(c, err)
	}
}
