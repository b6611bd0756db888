package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/grading"
	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/internal/repository"
)

// StatsService 成绩查看与统计业务接口
// 所有统计每次由完整数据重新计算，不维护增量状态
type StatsService interface {
	// Summary 看板统计
	Summary(ctx context.Context) (*dto.StatsResponse, error)
	// Results 按专业/学期/考试类型生成成绩表格，缺失成绩为 N/A
	Results(ctx context.Context, req *dto.ResultsRequest) (*dto.ResultsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger, now: time.Now}
}

func (s *statsService) Summary(ctx context.Context) (*dto.StatsResponse, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{})
	if err != nil {
		s.logger.Error("统计：查询学生失败", zap.Error(err))
		return nil, err
	}
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{})
	if err != nil {
		s.logger.Error("统计：查询科目失败", zap.Error(err))
		return nil, err
	}
	marks, err := s.repo.Marks.ListAll(ctx)
	if err != nil {
		s.logger.Error("统计：查询成绩失败", zap.Error(err))
		return nil, err
	}

	summary := grading.Summarize(students, subjects, marks)

	byCode := make(map[string]float64, len(summary.SubjectAverage))
	for _, sub := range subjects {
		if avg, ok := summary.SubjectAverage[sub.SubjectID]; ok {
			byCode[sub.Code] = avg
		}
	}

	return &dto.StatsResponse{
		Summary:              summary,
		SubjectAverageByCode: byCode,
		GeneratedAt:          s.now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *statsService) Results(ctx context.Context, req *dto.ResultsRequest) (*dto.ResultsResponse, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{
		Branch: req.Branch,
		Batch:  req.Batch,
	})
	if err != nil {
		s.logger.Error("成绩表格：查询学生失败", zap.Error(err))
		return nil, err
	}
	students = grading.FilterBySemester(students, req.Semester, s.now())

	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("成绩表格：查询科目失败", zap.Error(err))
		return nil, err
	}

	studentIDs := make([]string, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.StudentID)
	}
	marks, err := s.repo.Marks.ListByStudentIDs(ctx, studentIDs)
	if err != nil {
		s.logger.Error("成绩表格：查询成绩失败", zap.Error(err))
		return nil, err
	}

	maxScore, _ := grading.MaxScore(req.ExamType)
	return buildResults(req, maxScore, students, subjects, grading.PerStudentSubjectScore(marks, req.ExamType)), nil
}

// buildResults 组装成绩表格，行按学生输入顺序，列按科目输入顺序
func buildResults(
	req *dto.ResultsRequest,
	maxScore int,
	students []model.Student,
	subjects []model.Subject,
	scores map[grading.StudentSubject]int,
) *dto.ResultsResponse {
	resp := &dto.ResultsResponse{
		Branch:   req.Branch,
		Semester: req.Semester,
		ExamType: req.ExamType,
		MaxScore: maxScore,
		Columns:  make([]dto.ResultsColumn, 0, len(subjects)),
		Rows:     make([]dto.ResultsRow, 0, len(students)),
	}

	for _, sub := range subjects {
		resp.Columns = append(resp.Columns, dto.ResultsColumn{
			SubjectID: sub.SubjectID,
			Code:      sub.Code,
			Name:      sub.Name,
		})
	}

	for _, st := range students {
		row := dto.ResultsRow{
			StudentID: st.StudentID,
			RegNo:     st.RegNo,
			Name:      st.Name,
			RollNo:    st.RollNo,
			Batch:     st.Batch,
			Scores:    make([]string, 0, len(subjects)),
		}
		for _, sub := range subjects {
			score, ok := scores[grading.StudentSubject{StudentID: st.StudentID, SubjectID: sub.SubjectID}]
			if !ok {
				row.Scores = append(row.Scores, dto.NotAvailable)
				continue
			}
			row.Scores = append(row.Scores, strconv.Itoa(score))
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp
}
