package dto

import "github.com/KedarDamale/MarksMania/internal/model"

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	RegNo          string `json:"student_reg"             binding:"required,max=50"`
	Name           string `json:"student_name"            binding:"required,max=100"`
	Branch         string `json:"student_branch"          binding:"required,max=100"`
	GraduationYear int    `json:"student_graduation_year" binding:"required"`
	Batch          string `json:"student_batch"           binding:"required,max=20"`
	RollNo         int    `json:"student_rollno"          binding:"required,min=1"`
}

// UpdateStudentRequest 更新学生请求（部分字段）
type UpdateStudentRequest struct {
	RegNo          *string `json:"student_reg"             binding:"omitempty,min=1,max=50"`
	Name           *string `json:"student_name"            binding:"omitempty,min=1,max=100"`
	Branch         *string `json:"student_branch"          binding:"omitempty,min=1,max=100"`
	GraduationYear *int    `json:"student_graduation_year"`
	Batch          *string `json:"student_batch"           binding:"omitempty,min=1,max=20"`
	RollNo         *int    `json:"student_rollno"          binding:"omitempty,min=1"`
}

// StudentListRequest 学生列表筛选
// Semester 为按当前日期推算的学期，不落库
type StudentListRequest struct {
	Branch         string `form:"branch"          binding:"omitempty,max=100"`
	Batch          string `form:"batch"           binding:"omitempty,max=20"`
	GraduationYear int    `form:"graduation_year" binding:"omitempty,min=1"`
	Semester       int    `form:"semester"        binding:"omitempty,min=1,max=8"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID             string `json:"_id"`
	RegNo          string `json:"student_reg"`
	Name           string `json:"student_name"`
	Branch         string `json:"student_branch"`
	GraduationYear int    `json:"student_graduation_year"`
	Batch          string `json:"student_batch"`
	RollNo         int    `json:"student_rollno"`
	Semester       int    `json:"semester"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// NewStudentResponse 由模型构造响应，semester 由调用方按当前日期计算
func NewStudentResponse(s *model.Student, semester int) StudentResponse {
	return StudentResponse{
		ID:             s.StudentID,
		RegNo:          s.RegNo,
		Name:           s.Name,
		Branch:         s.Branch,
		GraduationYear: s.GraduationYear,
		Batch:          s.Batch,
		RollNo:         s.RollNo,
		Semester:       semester,
		CreatedAt:      s.CreatedAt.Format(timeLayout),
		UpdatedAt:      s.UpdatedAt.Format(timeLayout),
	}
}

// ── 学生导入 ──

// ImportFailure 导入失败的行
type ImportFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportStudentsResponse 批量导入结果
type ImportStudentsResponse struct {
	Total    int             `json:"total"`
	Created  int             `json:"created"`
	Failures []ImportFailure `json:"failures"`
}
