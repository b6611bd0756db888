package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	base
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, b base) *ExportHandler {
	return &ExportHandler{base: b, exportSvc: exportSvc}
}

// ExportResults 导出成绩表
// GET /api/export/results?branch=&semester=&exam_type=&format=csv|xlsx
func (h *ExportHandler) ExportResults(c *gin.Context) {
	var req dto.ResultsRequest
	var fmtReq dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&fmtReq); err != nil {
		bindError(c, err)
		return
	}

	file, err := h.exportSvc.ExportResults(c.Request.Context(), &req, fmtReq.GetFormat())
	h.writeFile(c, file, err)
}

// ExportStudents 导出学生名单
// GET /api/export/students?branch=&batch=&graduation_year=&semester=&format=
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	var req dto.StudentListRequest
	var fmtReq dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&fmtReq); err != nil {
		bindError(c, err)
		return
	}

	file, err := h.exportSvc.ExportStudents(c.Request.Context(), &req, fmtReq.GetFormat())
	h.writeFile(c, file, err)
}

// ExportSubjects 导出科目列表
// GET /api/export/subjects?branch=&semester=&format=
func (h *ExportHandler) ExportSubjects(c *gin.Context) {
	var req dto.SubjectListRequest
	var fmtReq dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&fmtReq); err != nil {
		bindError(c, err)
		return
	}

	file, err := h.exportSvc.ExportSubjects(c.Request.Context(), &req, fmtReq.GetFormat())
	h.writeFile(c, file, err)
}

func (h *ExportHandler) writeFile(c *gin.Context, file *service.ExportFile, err error) {
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Body.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportUnsupportedFormat):
		response.BadRequest(c, 16101, "不支持的导出格式")
	default:
		h.internalError(c, err)
	}
}
