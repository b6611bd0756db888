package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/config"
	"github.com/KedarDamale/MarksMania/internal/dto"
)

// ── 测试辅助 ──

func testAcademic() *config.AcademicConfig {
	return &config.AcademicConfig{
		MinGraduationYear:   2024,
		GraduationYearAhead: 10,
		Batches:             []string{"B1", "B2", "B3", "B4"},
	}
}

func setupTestStudentService() (*studentService, *mockRepos) {
	repo, mocks := newMockRepository()
	svc := NewStudentService(testAcademic(), repo, zap.NewNop()).(*studentService)
	svc.now = fixedClock
	return svc, mocks
}

func newStudentReq(reg string, rollNo int) *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		RegNo:          reg,
		Name:           "Asha",
		Branch:         "CSE",
		GraduationYear: 2027,
		Batch:          "B1",
		RollNo:         rollNo,
	}
}

// ── Create ──

func TestStudentService_Create_Success(t *testing.T) {
	svc, _ := setupTestStudentService()

	result, err := svc.Create(context.Background(), newStudentReq("REG001", 1))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.ID == "" {
		t.Error("ID 不应为空")
	}
	// 2026-03 距 2027 毕业一年，上半年 → 第 6 学期
	if result.Semester != 6 {
		t.Errorf("期望 Semester=6，实际=%d", result.Semester)
	}
}

func TestStudentService_CreateThenList_FieldsRoundTrip(t *testing.T) {
	svc, _ := setupTestStudentService()
	req := &dto.CreateStudentRequest{
		RegNo:          "REG042",
		Name:           "Ravi Kumar",
		Branch:         "ECE",
		GraduationYear: 2028,
		Batch:          "B3",
		RollNo:         42,
	}

	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	list, err := svc.List(context.Background(), &dto.StudentListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望 1 名学生，实际 %d", len(list))
	}
	got := list[0]
	if got.ID != created.ID ||
		got.RegNo != req.RegNo ||
		got.Name != req.Name ||
		got.Branch != req.Branch ||
		got.GraduationYear != req.GraduationYear ||
		got.Batch != req.Batch ||
		got.RollNo != req.RollNo {
		t.Errorf("列表中的学生与提交字段不一致: 提交 %+v，实际 %+v", req, got)
	}
}

func TestStudentService_Create_GraduationYearOutOfRange(t *testing.T) {
	svc, _ := setupTestStudentService()

	for _, year := range []int{2023, 2037} {
		req := newStudentReq("REG001", 1)
		req.GraduationYear = year
		_, err := svc.Create(context.Background(), req)
		if !errors.Is(err, ErrInvalidGraduationYear) {
			t.Errorf("毕业年份 %d: 期望 ErrInvalidGraduationYear，实际: %v", year, err)
		}
	}

	req := newStudentReq("REG002", 2)
	req.GraduationYear = 2036
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Errorf("毕业年份 2036 应允许: %v", err)
	}
}

func TestStudentService_Create_InvalidBatch(t *testing.T) {
	svc, _ := setupTestStudentService()

	req := newStudentReq("REG001", 1)
	req.Batch = "B9"
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrInvalidBatch) {
		t.Errorf("期望 ErrInvalidBatch，实际: %v", err)
	}
}

func TestStudentService_Create_Duplicates(t *testing.T) {
	svc, _ := setupTestStudentService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, newStudentReq("REG001", 1)); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.Create(ctx, newStudentReq("REG001", 2))
	if !errors.Is(err, ErrStudentRegExists) {
		t.Errorf("重复注册号: 期望 ErrStudentRegExists，实际: %v", err)
	}

	_, err = svc.Create(ctx, newStudentReq("REG002", 1))
	if !errors.Is(err, ErrStudentRollNoExists) {
		t.Errorf("重复序号: 期望 ErrStudentRollNoExists，实际: %v", err)
	}
}

// ── List ──

func TestStudentService_List_FilterBySemester(t *testing.T) {
	svc, _ := setupTestStudentService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, newStudentReq("REG001", 1)) // 2027 → 6
	req := newStudentReq("REG002", 2)
	req.GraduationYear = 2028 // → 4
	_, _ = svc.Create(ctx, req)

	all, err := svc.List(ctx, &dto.StudentListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("期望 2 名学生，实际 %d", len(all))
	}

	sem4, _ := svc.List(ctx, &dto.StudentListRequest{Semester: 4})
	if len(sem4) != 1 || sem4[0].RegNo != "REG002" {
		t.Errorf("第 4 学期应只有 REG002，实际 %+v", sem4)
	}

	cse, _ := svc.List(ctx, &dto.StudentListRequest{Branch: "ECE"})
	if len(cse) != 0 {
		t.Errorf("ECE 不应有学生，实际 %d", len(cse))
	}
}

// ── Update / Delete ──

func TestStudentService_Update(t *testing.T) {
	svc, _ := setupTestStudentService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, newStudentReq("REG001", 1))

	name := "Asha K"
	batch := "B2"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateStudentRequest{Name: &name, Batch: &batch})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "Asha K" || updated.Batch != "B2" {
		t.Errorf("字段未更新: %+v", updated)
	}
	if updated.RegNo != "REG001" {
		t.Error("未提供的字段不应改变")
	}

	_, err = svc.Update(ctx, "00000000-0000-0000-0000-999999999999", &dto.UpdateStudentRequest{Name: &name})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestStudentService_Update_Invalid(t *testing.T) {
	svc, _ := setupTestStudentService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, newStudentReq("REG001", 1))

	year := 1999
	_, err := svc.Update(ctx, created.ID, &dto.UpdateStudentRequest{GraduationYear: &year})
	if !errors.Is(err, ErrInvalidGraduationYear) {
		t.Errorf("期望 ErrInvalidGraduationYear，实际: %v", err)
	}
}

func TestStudentService_Delete(t *testing.T) {
	svc, mocks := setupTestStudentService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, newStudentReq("REG001", 1))
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(mocks.student.students) != 0 {
		t.Error("学生应被删除")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("重复删除: 期望 ErrStudentNotFound，实际: %v", err)
	}
}

// ── Import ──

func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("写入测试 Excel 失败: %v", err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成测试 Excel 失败: %v", err)
	}
	return buf
}

func TestStudentService_ParseAndImport(t *testing.T) {
	svc, _ := setupTestStudentService()

	buf := buildImportFile(t, [][]interface{}{
		{"Roll No", "Reg No", "Name", "Branch", "Graduation Year", "Batch"},
		{1, "REG001", "Asha", "CSE", 2027, "B1"},
		{},
		{2, "REG002", "Ravi", "CSE", "abc", "B1"},
		{3, "REG001", "Dup", "CSE", 2027, "B2"},
		{4, "REG004", "Meera", "ECE", 2028, "B3"},
	})

	rows, err := svc.ParseImportFile(buf)
	if err != nil {
		t.Fatalf("ParseImportFile 应成功: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("空行应被跳过，期望 4 行，实际 %d", len(rows))
	}

	result, err := svc.Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("Import 应成功: %v", err)
	}
	if result.Total != 4 || result.Created != 2 {
		t.Errorf("期望 total=4 created=2，实际 %+v", result)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("期望 2 行失败，实际 %d", len(result.Failures))
	}
	if result.Failures[0].Row != 4 {
		t.Errorf("第一条失败应为第 4 行，实际 %d", result.Failures[0].Row)
	}
}

func TestStudentService_ParseImportFile_BadHeader(t *testing.T) {
	svc, _ := setupTestStudentService()

	buf := buildImportFile(t, [][]interface{}{
		{"Name", "Branch"},
		{"Asha", "CSE"},
	})
	if _, err := svc.ParseImportFile(buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
	}
}

func TestStudentService_ParseImportFile_NoData(t *testing.T) {
	svc, _ := setupTestStudentService()

	buf := buildImportFile(t, [][]interface{}{
		{"Reg No", "Name", "Branch", "Graduation Year", "Batch", "Roll No"},
	})
	if _, err := svc.ParseImportFile(buf); !errors.Is(err, ErrImportNoData) {
		t.Errorf("期望 ErrImportNoData，实际: %v", err)
	}
}
