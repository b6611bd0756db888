package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/grading"
	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/internal/repository"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
	"github.com/KedarDamale/MarksMania/pkg/metrics"
)

// ── 成绩模块业务错误 ──

var (
	ErrMarksNotFound     = errors.New("成绩记录不存在")
	ErrInvalidExamType   = errors.New("考试类型不合法")
	ErrInvalidScore      = errors.New("分数超出该考试类型的允许范围")
	ErrDuplicateExamType = errors.New("同一记录中考试类型重复")
	ErrDuplicateSubject  = errors.New("批量录入中科目重复")
	ErrScoreExists       = errors.New("该学生此科目此考试类型的成绩已存在")
)

// MarksService 成绩业务接口
type MarksService interface {
	Create(ctx context.Context, req *dto.CreateMarksRequest) (*dto.MarksResponse, error)
	// CreateBatch 一次录入同一学生同一考试类型的多科成绩，全部成功或全部失败
	CreateBatch(ctx context.Context, req *dto.BatchMarksRequest) ([]dto.MarksResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.MarksResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMarksRequest) (*dto.MarksResponse, error)
	Delete(ctx context.Context, id string) error
}

type marksService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMarksService 创建 MarksService 实例
func NewMarksService(repo *repository.Repository, logger *zap.Logger) MarksService {
	return &marksService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *marksService) Create(ctx context.Context, req *dto.CreateMarksRequest) (*dto.MarksResponse, error) {
	entries, err := s.buildEntries(req.StudentID, req.SubjectID, req.Marks)
	if err != nil {
		return nil, err
	}

	if err := s.ensureStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", req.SubjectID), zap.Error(err))
		return nil, err
	}

	// 预检查给出友好错误；并发写入由唯一约束兜底
	existing, err := s.existingExamTypes(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if existing[pairKey(req.SubjectID, e.ExamType)] {
			metrics.ScoreRejected(metrics.RejectDuplicate)
			return nil, fmt.Errorf("%w: %s", ErrScoreExists, e.ExamType)
		}
	}

	record := &model.MarksRecord{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Entries:   entries,
	}
	if err := s.repo.Marks.Create(ctx, record); err != nil {
		return nil, s.writeError("录入成绩失败", err)
	}
	observeWritten(record.Entries)

	record.Subject = subject
	resp := dto.NewMarksResponse(record)
	return &resp, nil
}

// ────────────────────── CreateBatch ──────────────────────

func (s *marksService) CreateBatch(ctx context.Context, req *dto.BatchMarksRequest) ([]dto.MarksResponse, error) {
	if !grading.IsValidExamType(req.ExamType) {
		return nil, ErrInvalidExamType
	}

	subjectIDs := make([]string, 0, len(req.Scores))
	seen := make(map[string]bool, len(req.Scores))
	for _, sc := range req.Scores {
		if seen[sc.SubjectID] {
			return nil, ErrDuplicateSubject
		}
		seen[sc.SubjectID] = true
		if sc.Score == nil || !grading.IsValidScore(req.ExamType, *sc.Score) {
			metrics.ScoreRejected(metrics.RejectInvalidScore)
			return nil, scoreRangeError(req.ExamType)
		}
		subjectIDs = append(subjectIDs, sc.SubjectID)
	}

	if err := s.ensureStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	subjects, err := s.repo.Subject.ListByIDs(ctx, subjectIDs)
	if err != nil {
		s.logger.Error("查询科目失败", zap.Error(err))
		return nil, err
	}
	subjectByID := make(map[string]*model.Subject, len(subjects))
	for i := range subjects {
		subjectByID[subjects[i].SubjectID] = &subjects[i]
	}
	for _, id := range subjectIDs {
		if subjectByID[id] == nil {
			return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
		}
	}

	existing, err := s.existingExamTypes(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	records := make([]*model.MarksRecord, 0, len(req.Scores))
	for _, sc := range req.Scores {
		if existing[pairKey(sc.SubjectID, req.ExamType)] {
			metrics.ScoreRejected(metrics.RejectDuplicate)
			return nil, fmt.Errorf("%w: %s", ErrScoreExists, subjectByID[sc.SubjectID].Code)
		}
		records = append(records, &model.MarksRecord{
			StudentID: req.StudentID,
			SubjectID: sc.SubjectID,
			Entries: []model.ScoreEntry{{
				StudentID:  req.StudentID,
				SubjectID:  sc.SubjectID,
				ExamType:   req.ExamType,
				Score:      *sc.Score,
				RecordedAt: now,
			}},
		})
	}

	if err := s.repo.Marks.CreateBatch(ctx, records); err != nil {
		return nil, s.writeError("批量录入成绩失败", err)
	}
	metrics.ScoreWritten(req.ExamType, len(records))

	result := make([]dto.MarksResponse, 0, len(records))
	for _, rec := range records {
		rec.Subject = subjectByID[rec.SubjectID]
		result = append(result, dto.NewMarksResponse(rec))
	}
	return result, nil
}

// ────────────────────── ListByStudent ──────────────────────

func (s *marksService) ListByStudent(ctx context.Context, studentID string) ([]dto.MarksResponse, error) {
	records, err := s.repo.Marks.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MarksResponse, 0, len(records))
	for i := range records {
		result = append(result, dto.NewMarksResponse(&records[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *marksService) Update(ctx context.Context, id string, req *dto.UpdateMarksRequest) (*dto.MarksResponse, error) {
	record, err := s.repo.Marks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarksNotFound
		}
		s.logger.Error("查询成绩记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.StudentID != nil && *req.StudentID != record.StudentID {
		if err := s.ensureStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
		record.StudentID = *req.StudentID
	}
	if req.SubjectID != nil && *req.SubjectID != record.SubjectID {
		if _, err := s.repo.Subject.GetByID(ctx, *req.SubjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubjectNotFound
			}
			return nil, err
		}
		record.SubjectID = *req.SubjectID
	}

	replace := len(req.Marks) > 0
	if replace {
		entries, err := s.buildEntries(record.StudentID, record.SubjectID, req.Marks)
		if err != nil {
			return nil, err
		}
		record.Entries = entries
	} else {
		for i := range record.Entries {
			record.Entries[i].StudentID = record.StudentID
			record.Entries[i].SubjectID = record.SubjectID
		}
	}

	if err := s.repo.Marks.Update(ctx, record, replace); err != nil {
		return nil, s.writeError("更新成绩失败", err)
	}
	if replace {
		observeWritten(record.Entries)
	}

	resp := dto.NewMarksResponse(record)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *marksService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Marks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMarksNotFound
		}
		s.logger.Error("删除成绩记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

// buildEntries 校验并构造单次成绩，保持输入顺序
func (s *marksService) buildEntries(studentID, subjectID string, inputs []dto.ScoreInput) ([]model.ScoreEntry, error) {
	now := s.now().UTC()
	seen := make(map[string]bool, len(inputs))
	entries := make([]model.ScoreEntry, 0, len(inputs))

	for i, in := range inputs {
		if !grading.IsValidExamType(in.ExamType) {
			return nil, ErrInvalidExamType
		}
		if seen[in.ExamType] {
			return nil, ErrDuplicateExamType
		}
		seen[in.ExamType] = true

		if in.Score == nil || !grading.IsValidScore(in.ExamType, *in.Score) {
			metrics.ScoreRejected(metrics.RejectInvalidScore)
			return nil, scoreRangeError(in.ExamType)
		}

		recordedAt := now
		if in.RecordedAt != nil && !in.RecordedAt.IsZero() {
			recordedAt = in.RecordedAt.UTC()
		}

		entries = append(entries, model.ScoreEntry{
			StudentID:  studentID,
			SubjectID:  subjectID,
			ExamType:   in.ExamType,
			Score:      *in.Score,
			Position:   i,
			RecordedAt: recordedAt,
		})
	}
	return entries, nil
}

func (s *marksService) ensureStudent(ctx context.Context, studentID string) error {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return err
	}
	return nil
}

// existingExamTypes 返回学生已有成绩的 "科目|考试类型" 集合
func (s *marksService) existingExamTypes(ctx context.Context, studentID string) (map[string]bool, error) {
	records, err := s.repo.Marks.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询已有成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	set := make(map[string]bool)
	for _, r := range records {
		for _, e := range r.Entries {
			set[pairKey(r.SubjectID, e.ExamType)] = true
		}
	}
	return set, nil
}

// writeError 统一处理写入错误：唯一约束冲突转为 ErrScoreExists
func (s *marksService) writeError(msg string, err error) error {
	if errors.Is(err, pkgerrors.ErrDuplicate) {
		metrics.ScoreRejected(metrics.RejectDuplicate)
		return ErrScoreExists
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func pairKey(subjectID, examType string) string {
	return subjectID + "|" + examType
}

func scoreRangeError(examType string) error {
	max, _ := grading.MaxScore(examType)
	return fmt.Errorf("%w: %s 应在 %d-%d 之间", ErrInvalidScore, examType, grading.MinScore, max)
}

func observeWritten(entries []model.ScoreEntry) {
	for _, e := range entries {
		metrics.ScoreWritten(e.ExamType, 1)
	}
}
