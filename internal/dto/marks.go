package dto

import (
	"time"

	"github.com/KedarDamale/MarksMania/internal/model"
)

// ── 成绩模块 DTO ──

// ScoreInput 单次考试成绩
// Score 使用指针以区分 0 分与缺失
type ScoreInput struct {
	ExamType   string     `json:"examType" binding:"required,exam_type"`
	Score      *int       `json:"score"    binding:"required"`
	RecordedAt *time.Time `json:"date"`
}

// CreateMarksRequest 录入某学生某科目的成绩
type CreateMarksRequest struct {
	StudentID string       `json:"studentId" binding:"required,uuid"`
	SubjectID string       `json:"subjectId" binding:"required,uuid"`
	Marks     []ScoreInput `json:"marks"     binding:"required,min=1,max=3,dive"`
}

// UpdateMarksRequest 更新成绩记录（部分字段）
// Marks 非空时整体替换原有成绩
type UpdateMarksRequest struct {
	StudentID *string      `json:"studentId" binding:"omitempty,uuid"`
	SubjectID *string      `json:"subjectId" binding:"omitempty,uuid"`
	Marks     []ScoreInput `json:"marks"     binding:"omitempty,max=3,dive"`
}

// SubjectScoreInput 批量录入中的单科成绩
type SubjectScoreInput struct {
	SubjectID string `json:"subjectId" binding:"required,uuid"`
	Score     *int   `json:"score"     binding:"required"`
}

// BatchMarksRequest 同一学生同一考试类型下多科成绩一次提交
type BatchMarksRequest struct {
	StudentID string              `json:"studentId" binding:"required,uuid"`
	ExamType  string              `json:"examType"  binding:"required,exam_type"`
	Scores    []SubjectScoreInput `json:"scores"    binding:"required,min=1,max=50,dive"`
}

// ScoreEntryResponse 单次考试成绩响应
type ScoreEntryResponse struct {
	ID       string `json:"_id"`
	ExamType string `json:"examType"`
	Score    int    `json:"score"`
	Date     string `json:"date"`
}

// MarksResponse 成绩记录响应
// Subject 仅在按学生查询时展开，科目已删除时为空
type MarksResponse struct {
	ID        string               `json:"_id"`
	StudentID string               `json:"studentId"`
	SubjectID string               `json:"subjectId"`
	Subject   *SubjectResponse     `json:"subject,omitempty"`
	Marks     []ScoreEntryResponse `json:"marks"`
	CreatedAt string               `json:"createdAt"`
	UpdatedAt string               `json:"updatedAt"`
}

// NewMarksResponse 由模型构造响应
func NewMarksResponse(m *model.MarksRecord) MarksResponse {
	resp := MarksResponse{
		ID:        m.MarksID,
		StudentID: m.StudentID,
		SubjectID: m.SubjectID,
		Marks:     make([]ScoreEntryResponse, 0, len(m.Entries)),
		CreatedAt: m.CreatedAt.Format(timeLayout),
		UpdatedAt: m.UpdatedAt.Format(timeLayout),
	}
	if m.Subject != nil {
		sub := NewSubjectResponse(m.Subject)
		resp.Subject = &sub
	}
	for _, e := range m.Entries {
		resp.Marks = append(resp.Marks, ScoreEntryResponse{
			ID:       e.EntryID,
			ExamType: e.ExamType,
			Score:    e.Score,
			Date:     e.RecordedAt.Format(timeLayout),
		})
	}
	return resp
}
