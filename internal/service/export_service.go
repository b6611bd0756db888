package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/grading"
	"github.com/KedarDamale/MarksMania/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportUnsupportedFormat = errors.New("不支持的导出格式")
	ErrExportGenerateFail      = errors.New("生成导出文件失败")
)

// 导出格式
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportFile 导出结果
type ExportFile struct {
	Body        *bytes.Buffer
	Filename    string
	ContentType string
}

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportResults 导出成绩表格，缺失成绩为 N/A
	ExportResults(ctx context.Context, req *dto.ResultsRequest, format string) (*ExportFile, error)
	ExportStudents(ctx context.Context, req *dto.StudentListRequest, format string) (*ExportFile, error)
	ExportSubjects(ctx context.Context, req *dto.SubjectListRequest, format string) (*ExportFile, error)
}

type exportService struct {
	repo   *repository.Repository
	stats  StatsService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, stats StatsService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, stats: stats, logger: logger, now: time.Now}
}

// table 导出的二维表
type table struct {
	title  string
	header []string
	rows   [][]string
}

// ────────────────────── ExportResults ──────────────────────

func (s *exportService) ExportResults(ctx context.Context, req *dto.ResultsRequest, format string) (*ExportFile, error) {
	results, err := s.stats.Results(ctx, req)
	if err != nil {
		return nil, err
	}

	header := []string{"Roll No", "Reg No", "Name", "Batch"}
	for _, col := range results.Columns {
		header = append(header, col.Code)
	}

	rows := make([][]string, 0, len(results.Rows))
	for _, r := range results.Rows {
		row := []string{strconv.Itoa(r.RollNo), r.RegNo, r.Name, r.Batch}
		row = append(row, r.Scores...)
		rows = append(rows, row)
	}

	t := &table{
		title:  fmt.Sprintf("%s 第%d学期 %s（满分 %d）", req.Branch, req.Semester, req.ExamType, results.MaxScore),
		header: header,
		rows:   rows,
	}
	name := fmt.Sprintf("results_%s_sem%d_%s", sanitize(req.Branch), req.Semester, req.ExamType)
	return s.render(t, name, format)
}

// ────────────────────── ExportStudents ──────────────────────

func (s *exportService) ExportStudents(ctx context.Context, req *dto.StudentListRequest, format string) (*ExportFile, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{
		Branch:         req.Branch,
		Batch:          req.Batch,
		GraduationYear: req.GraduationYear,
	})
	if err != nil {
		s.logger.Error("导出：查询学生失败", zap.Error(err))
		return nil, err
	}
	today := s.now()
	if req.Semester != 0 {
		students = grading.FilterBySemester(students, req.Semester, today)
	}

	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			st.RegNo,
			st.Name,
			st.Branch,
			strconv.Itoa(st.GraduationYear),
			st.Batch,
			strconv.Itoa(st.RollNo),
			strconv.Itoa(grading.CurrentSemester(st.GraduationYear, today)),
		})
	}

	t := &table{
		title:  "学生名单",
		header: []string{"Reg No", "Name", "Branch", "Graduation Year", "Batch", "Roll No", "Semester"},
		rows:   rows,
	}
	return s.render(t, "students", format)
}

// ────────────────────── ExportSubjects ──────────────────────

func (s *exportService) ExportSubjects(ctx context.Context, req *dto.SubjectListRequest, format string) (*ExportFile, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("导出：查询科目失败", zap.Error(err))
		return nil, err
	}

	rows := make([][]string, 0, len(subjects))
	for _, sub := range subjects {
		rows = append(rows, []string{sub.Code, sub.Name, sub.Branch, strconv.Itoa(sub.Semester)})
	}

	t := &table{
		title:  "科目列表",
		header: []string{"Code", "Name", "Branch", "Semester"},
		rows:   rows,
	}
	return s.render(t, "subjects", format)
}

// ── 渲染 ──

func (s *exportService) render(t *table, name, format string) (*ExportFile, error) {
	switch format {
	case "", FormatCSV:
		buf, err := renderCSV(t)
		if err != nil {
			s.logger.Error("写入 CSV 失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &ExportFile{Body: buf, Filename: name + ".csv", ContentType: "text/csv; charset=utf-8"}, nil
	case FormatXLSX:
		buf, err := renderXLSX(t)
		if err != nil {
			s.logger.Error("写入 Excel 失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &ExportFile{
			Body:        buf,
			Filename:    name + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}, nil
	default:
		return nil, ErrExportUnsupportedFormat
	}
}

func renderCSV(t *table) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(t.header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.rows); err != nil {
		return nil, err
	}
	return buf, nil
}

func renderXLSX(t *table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// 标题行
	lastCol, _ := excelize.ColumnNumberToName(max(len(t.header), 1))
	f.SetCellValue(sheetName, "A1", t.title)
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	if err := f.SetSheetRow(sheetName, "A2", &t.header); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetName, "A2", lastCol+"2", headerStyle)
	f.SetColWidth(sheetName, "A", lastCol, 16)

	// 数据行
	for i, row := range t.rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+3)
		values := make([]interface{}, len(row))
		for j, v := range row {
			// 数值按数字写入，便于在表格软件中排序
			if n, err := strconv.Atoi(v); err == nil {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		if err := f.SetSheetRow(sheetName, cellName, &values); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// sanitize 生成安全的文件名片段
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
