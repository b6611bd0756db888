package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/config"
	"github.com/KedarDamale/MarksMania/internal/repository"
	"github.com/KedarDamale/MarksMania/pkg/jwt"
)

// TokenBlacklist 登出时吊销 Token（由 Redis 实现，可为 nil）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Student StudentService
	Subject SubjectService
	Marks   MarksService
	Stats   StatsService
	Export  ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	stats := NewStatsService(repo, logger)
	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Student: NewStudentService(&cfg.Academic, repo, logger),
		Subject: NewSubjectService(repo, logger),
		Marks:   NewMarksService(repo, logger),
		Stats:   stats,
		Export:  NewExportService(repo, stats, logger),
	}
}
