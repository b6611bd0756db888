package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/internal/repository"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound   = errors.New("科目不存在")
	ErrSubjectCodeExists = errors.New("科目代码已存在")
)

// SubjectService 科目业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	// Delete 不删除关联成绩
	Delete(ctx context.Context, id string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{
		Name:     strings.TrimSpace(req.Name),
		Branch:   strings.TrimSpace(req.Branch),
		Semester: req.Semester,
		Code:     strings.TrimSpace(req.Code),
	}

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrSubjectCodeExists
		}
		s.logger.Error("创建科目失败", zap.String("code", subject.Code), zap.Error(err))
		return nil, err
	}

	resp := dto.NewSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, dto.NewSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *subjectService) Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Branch != nil {
		subject.Branch = strings.TrimSpace(*req.Branch)
	}
	if req.Semester != nil {
		subject.Semester = *req.Semester
	}
	if req.Code != nil {
		subject.Code = strings.TrimSpace(*req.Code)
	}

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrSubjectCodeExists
		}
		s.logger.Error("更新科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := dto.NewSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
