package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// StatsHandler 统计与成绩单 HTTP 处理器
type StatsHandler struct {
	base
	svc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(svc service.StatsService, b base) *StatsHandler {
	return &StatsHandler{base: b, svc: svc}
}

// Summary 仪表盘统计
// GET /api/stats
func (h *StatsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	response.OK(c, resp)
}

// Results 某专业某学期某考试的成绩表，缺失成绩为 N/A
// GET /api/results?branch=&semester=&batch=&exam_type=
func (h *StatsHandler) Results(c *gin.Context) {
	var req dto.ResultsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Results(c.Request.Context(), &req)
	if err != nil {
		h.internalError(c, err)
		return
	}
	response.OK(c, resp)
}
