package dto

import "github.com/KedarDamale/MarksMania/internal/model"

// ── 科目模块 DTO ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name     string `json:"subject_name" binding:"required,max=150"`
	Branch   string `json:"branch"       binding:"required,max=100"`
	Semester int    `json:"semester"     binding:"required,min=1,max=8"`
	Code     string `json:"subject_code" binding:"required,max=30"`
}

// UpdateSubjectRequest 更新科目请求（部分字段）
type UpdateSubjectRequest struct {
	Name     *string `json:"subject_name" binding:"omitempty,min=1,max=150"`
	Branch   *string `json:"branch"       binding:"omitempty,min=1,max=100"`
	Semester *int    `json:"semester"     binding:"omitempty,min=1,max=8"`
	Code     *string `json:"subject_code" binding:"omitempty,min=1,max=30"`
}

// SubjectListRequest 科目列表筛选
type SubjectListRequest struct {
	Branch   string `form:"branch"   binding:"omitempty,max=100"`
	Semester int    `form:"semester" binding:"omitempty,min=1,max=8"`
}

// SubjectResponse 科目信息响应
type SubjectResponse struct {
	ID        string `json:"_id"`
	Name      string `json:"subject_name"`
	Branch    string `json:"branch"`
	Semester  int    `json:"semester"`
	Code      string `json:"subject_code"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewSubjectResponse 由模型构造响应
func NewSubjectResponse(s *model.Subject) SubjectResponse {
	return SubjectResponse{
		ID:        s.SubjectID,
		Name:      s.Name,
		Branch:    s.Branch,
		Semester:  s.Semester,
		Code:      s.Code,
		CreatedAt: s.CreatedAt.Format(timeLayout),
		UpdatedAt: s.UpdatedAt.Format(timeLayout),
	}
}
