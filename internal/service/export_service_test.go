package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/internal/dto"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	stats := NewStatsService(repo, zap.NewNop()).(*statsService)
	stats.now = fixedClock
	svc := NewExportService(repo, stats, zap.NewNop()).(*exportService)
	svc.now = fixedClock
	return svc, mocks
}

// ── ExportResults ──

func TestExportService_ExportResults_CSV(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedResults(t, mocks)

	file, err := svc.ExportResults(context.Background(), &dto.ResultsRequest{
		Branch: "CSE", Semester: 6, ExamType: "IA1",
	}, FormatCSV)
	if err != nil {
		t.Fatalf("ExportResults 应成功: %v", err)
	}
	if file.Filename != "results_CSE_sem6_IA1.csv" {
		t.Errorf("文件名不正确: %s", file.Filename)
	}

	records, err := csv.NewReader(strings.NewReader(file.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("CSV 解析失败: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("期望表头 + 2 行，实际 %d 行", len(records))
	}
	if strings.Join(records[0], ",") != "Roll No,Reg No,Name,Batch,CS601,CS602" {
		t.Errorf("表头不正确: %v", records[0])
	}
	if records[1][4] != "15" || records[1][5] != "N/A" {
		t.Errorf("缺失成绩应为 N/A，实际 %v", records[1])
	}
}

func TestExportService_ExportResults_XLSX(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedResults(t, mocks)

	file, err := svc.ExportResults(context.Background(), &dto.ResultsRequest{
		Branch: "CSE", Semester: 6, ExamType: "IA1",
	}, FormatXLSX)
	if err != nil {
		t.Fatalf("ExportResults 应成功: %v", err)
	}
	if !strings.HasSuffix(file.Filename, ".xlsx") {
		t.Errorf("期望 .xlsx 文件，实际 %s", file.Filename)
	}

	f, err := excelize.OpenReader(file.Body)
	if err != nil {
		t.Fatalf("无法打开生成的 Excel: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue("Sheet1", "E2")
	if header != "CS601" {
		t.Errorf("E2 期望 CS601，实际 %s", header)
	}
	missing, _ := f.GetCellValue("Sheet1", "F3")
	if missing != "N/A" {
		t.Errorf("F3 期望 N/A，实际 %s", missing)
	}
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, err := svc.ExportSubjects(context.Background(), &dto.SubjectListRequest{}, "pdf")
	if !errors.Is(err, ErrExportUnsupportedFormat) {
		t.Errorf("期望 ErrExportUnsupportedFormat，实际: %v", err)
	}
}

// ── ExportStudents / ExportSubjects ──

func TestExportService_ExportStudents(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedResults(t, mocks)

	file, err := svc.ExportStudents(context.Background(), &dto.StudentListRequest{Semester: 4}, FormatCSV)
	if err != nil {
		t.Fatalf("ExportStudents 应成功: %v", err)
	}
	records, _ := csv.NewReader(file.Body).ReadAll()
	if len(records) != 2 {
		t.Fatalf("第 4 学期期望 1 名学生，实际 %d 行", len(records)-1)
	}
	if records[1][0] != "REG003" || records[1][6] != "4" {
		t.Errorf("行内容不正确: %v", records[1])
	}
}

func TestExportService_ExportSubjects(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedResults(t, mocks)

	file, err := svc.ExportSubjects(context.Background(), &dto.SubjectListRequest{Branch: "CSE"}, "")
	if err != nil {
		t.Fatalf("ExportSubjects 应成功: %v", err)
	}
	if file.ContentType != "text/csv; charset=utf-8" {
		t.Errorf("默认应为 CSV，实际 %s", file.ContentType)
	}
	records, _ := csv.NewReader(file.Body).ReadAll()
	if len(records) != 3 {
		t.Errorf("期望表头 + 2 行，实际 %d 行", len(records))
	}
}
