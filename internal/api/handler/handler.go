package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/internal/validation"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Subject *SubjectHandler
	Marks   *MarksHandler
	Stats   *StatsHandler
	Export  *ExportHandler
}

// Options Handler 通用选项
type Options struct {
	// ExposeErrDetail 为 true 时 500 响应附带底层错误信息
	ExposeErrDetail bool
	Logger          *zap.Logger
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, opts Options) *Handler {
	b := newBase(opts)
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, b),
		Student: NewStudentHandler(svc.Student, b),
		Subject: NewSubjectHandler(svc.Subject, b),
		Marks:   NewMarksHandler(svc.Marks, b),
		Stats:   NewStatsHandler(svc.Stats, b),
		Export:  NewExportHandler(svc.Export, b),
	}
}

// base 各 Handler 共享的错误输出
type base struct {
	exposeErr bool
	logger    *zap.Logger
}

func newBase(opts Options) base {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{exposeErr: opts.ExposeErrDetail, logger: logger}
}

// internalError 记录日志并返回 500
func (b base) internalError(c *gin.Context, err error) {
	b.logger.Error("请求处理失败",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	if b.exposeErr {
		response.InternalErrorWithDetails(c, err)
		return
	}
	response.InternalError(c)
}

// bindError 参数绑定/校验失败，details 为逐字段说明
func bindError(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validation.Translate(err))
}

// pathID 读取并校验路径中的 UUID 参数，失败时已写入 400
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, 10001, "无效的 ID: "+raw)
		return "", false
	}
	return id.String(), true
}
