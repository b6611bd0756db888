package dto

import "github.com/KedarDamale/MarksMania/internal/grading"

// ── 成绩查看与统计 ──

// StatsResponse 看板统计
// subjectAverage 以科目 ID 为键，subjectAverageByCode 便于前端直接展示
type StatsResponse struct {
	grading.Summary
	SubjectAverageByCode map[string]float64 `json:"subjectAverageByCode"`
	GeneratedAt          string             `json:"generatedAt"`
}

// NotAvailable 成绩表格中缺失成绩的占位符
const NotAvailable = "N/A"

// ResultsRequest 成绩表格查询参数
type ResultsRequest struct {
	Branch   string `form:"branch"    binding:"required,max=100"`
	Semester int    `form:"semester"  binding:"required,min=1,max=8"`
	Batch    string `form:"batch"     binding:"omitempty,max=20"`
	ExamType string `form:"exam_type" binding:"required,exam_type"`
}

// ResultsColumn 成绩表格列（科目）
type ResultsColumn struct {
	SubjectID string `json:"subjectId"`
	Code      string `json:"subject_code"`
	Name      string `json:"subject_name"`
}

// ResultsRow 成绩表格行（学生）
// Scores 与 Columns 一一对应，缺失为 "N/A"
type ResultsRow struct {
	StudentID string   `json:"studentId"`
	RegNo     string   `json:"student_reg"`
	Name      string   `json:"student_name"`
	RollNo    int      `json:"student_rollno"`
	Batch     string   `json:"student_batch"`
	Scores    []string `json:"scores"`
}

// ResultsResponse 成绩表格
type ResultsResponse struct {
	Branch   string          `json:"branch"`
	Semester int             `json:"semester"`
	ExamType string          `json:"examType"`
	MaxScore int             `json:"maxScore"`
	Columns  []ResultsColumn `json:"columns"`
	Rows     []ResultsRow    `json:"rows"`
}

// ExportRequest 导出格式
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// GetFormat 导出格式（默认 csv）
func (r *ExportRequest) GetFormat() string {
	if r.Format == "" {
		return "csv"
	}
	return r.Format
}
