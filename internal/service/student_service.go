package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/config"
	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/grading"
	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/internal/repository"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound       = errors.New("学生不存在")
	ErrStudentExists         = errors.New("学生已存在")
	ErrStudentRegExists      = errors.New("注册号已存在")
	ErrStudentRollNoExists   = errors.New("学号序号已存在")
	ErrInvalidGraduationYear = errors.New("毕业年份超出允许范围")
	ErrInvalidBatch          = errors.New("批次不合法")
)

// StudentService 学生业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	// List 按条件列出学生，semester 条件按当前日期推算
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
	// ParseImportFile 解析学生导入 Excel
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	// Import 逐行创建学生，单行失败不影响其他行
	Import(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error)
}

type studentService struct {
	academic *config.AcademicConfig
	repo     *repository.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(academic *config.AcademicConfig, repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{academic: academic, repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	student := &model.Student{
		RegNo:          strings.TrimSpace(req.RegNo),
		Name:           strings.TrimSpace(req.Name),
		Branch:         strings.TrimSpace(req.Branch),
		GraduationYear: req.GraduationYear,
		Batch:          strings.TrimSpace(req.Batch),
		RollNo:         req.RollNo,
	}
	if err := s.validate(student); err != nil {
		return nil, err
	}

	if err := s.repo.Student.Create(ctx, student); err != nil {
		if dup := studentDuplicate(err); dup != nil {
			return nil, dup
		}
		s.logger.Error("创建学生失败", zap.String("reg", student.RegNo), zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(student)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{
		Branch:         req.Branch,
		Batch:          req.Batch,
		GraduationYear: req.GraduationYear,
	})
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}

	if req.Semester != 0 {
		students = grading.FilterBySemester(students, req.Semester, s.now())
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, s.toResponse(&students[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.RegNo != nil {
		student.RegNo = strings.TrimSpace(*req.RegNo)
	}
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Branch != nil {
		student.Branch = strings.TrimSpace(*req.Branch)
	}
	if req.GraduationYear != nil {
		student.GraduationYear = *req.GraduationYear
	}
	if req.Batch != nil {
		student.Batch = strings.TrimSpace(*req.Batch)
	}
	if req.RollNo != nil {
		student.RollNo = *req.RollNo
	}

	if err := s.validate(student); err != nil {
		return nil, err
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if dup := studentDuplicate(err); dup != nil {
			return nil, dup
		}
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(student)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Import ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（注册号/姓名/专业/毕业年份/批次/序号）")
)

// ImportStudentRow 导入文件中的一行
type ImportStudentRow struct {
	Row            int
	RegNo          string
	Name           string
	Branch         string
	GraduationYear string
	Batch          string
	RollNo         string
}

func (r *ImportStudentRow) empty() bool {
	return r.RegNo == "" && r.Name == "" && r.Branch == "" &&
		r.GraduationYear == "" && r.Batch == "" && r.RollNo == ""
}

func (s *studentService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	for _, idx := range colIndex {
		if idx < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportStudentRow{
			Row:            i + 1,
			RegNo:          cell(row, "reg"),
			Name:           cell(row, "name"),
			Branch:         cell(row, "branch"),
			GraduationYear: cell(row, "graduation_year"),
			Batch:          cell(row, "batch"),
			RollNo:         cell(row, "rollno"),
		}

		// 跳过全空行
		if item.empty() {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"reg":             -1,
		"name":            -1,
		"branch":          -1,
		"graduation_year": -1,
		"batch":           -1,
		"rollno":          -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "注册号", "student_reg", "reg no", "registration number":
			idx["reg"] = i
		case "姓名", "student_name", "name":
			idx["name"] = i
		case "专业", "student_branch", "branch":
			idx["branch"] = i
		case "毕业年份", "student_graduation_year", "graduation year":
			idx["graduation_year"] = i
		case "批次", "student_batch", "batch":
			idx["batch"] = i
		case "序号", "student_rollno", "roll no":
			idx["rollno"] = i
		}
	}
	return idx
}

func (s *studentService) Import(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error) {
	resp := &dto.ImportStudentsResponse{
		Total:    len(rows),
		Failures: []dto.ImportFailure{},
	}

	for _, row := range rows {
		fail := func(reason string) {
			resp.Failures = append(resp.Failures, dto.ImportFailure{Row: row.Row, Reason: reason})
		}

		year, err := strconv.Atoi(row.GraduationYear)
		if err != nil {
			fail("毕业年份不是有效数字")
			continue
		}
		rollNo, err := strconv.Atoi(row.RollNo)
		if err != nil || rollNo <= 0 {
			fail("序号必须为正整数")
			continue
		}
		if row.RegNo == "" || row.Name == "" || row.Branch == "" {
			fail("注册号、姓名、专业不能为空")
			continue
		}

		_, err = s.Create(ctx, &dto.CreateStudentRequest{
			RegNo:          row.RegNo,
			Name:           row.Name,
			Branch:         row.Branch,
			GraduationYear: year,
			Batch:          row.Batch,
			RollNo:         rollNo,
		})
		if err != nil {
			fail(err.Error())
			continue
		}
		resp.Created++
	}

	s.logger.Info("学生导入完成",
		zap.Int("total", resp.Total),
		zap.Int("created", resp.Created),
		zap.Int("failed", len(resp.Failures)),
	)
	return resp, nil
}

// ── 内部辅助 ──

// validate 写入前校验毕业年份与批次
func (s *studentService) validate(student *model.Student) error {
	maxYear := s.academic.MaxGraduationYear(s.now().Year())
	if student.GraduationYear < s.academic.MinGraduationYear || student.GraduationYear > maxYear {
		return fmt.Errorf("%w: 应在 %d-%d 之间", ErrInvalidGraduationYear, s.academic.MinGraduationYear, maxYear)
	}
	for _, b := range s.academic.Batches {
		if student.Batch == b {
			return nil
		}
	}
	return fmt.Errorf("%w: 可选值 %s", ErrInvalidBatch, strings.Join(s.academic.Batches, "/"))
}

func (s *studentService) toResponse(student *model.Student) dto.StudentResponse {
	return dto.NewStudentResponse(student, grading.CurrentSemester(student.GraduationYear, s.now()))
}

// studentDuplicate 将唯一约束冲突映射为具体的业务错误；非冲突返回 nil
func studentDuplicate(err error) error {
	if !errors.Is(err, pkgerrors.ErrDuplicate) {
		return nil
	}
	switch pkgerrors.ConstraintOf(err) {
	case "uq_students_reg":
		return ErrStudentRegExists
	case "uq_students_rollno":
		return ErrStudentRollNoExists
	default:
		return ErrStudentExists
	}
}
