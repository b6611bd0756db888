package model

import "time"

// 考试类型
const (
	ExamTypeIA1      = "IA1"
	ExamTypeIA2      = "IA2"
	ExamTypeSemester = "Semester"
)

// ExamTypes 全部合法考试类型（按考试先后排序）
var ExamTypes = []string{ExamTypeIA1, ExamTypeIA2, ExamTypeSemester}

// MarksRecord 成绩记录表，对应 marks_records
// 一条记录聚合某学生某科目的多次考试成绩，而非每次考试一行
type MarksRecord struct {
	MarksID   string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                    json:"_id"`
	StudentID string       `gorm:"type:uuid;not null"                                                json:"studentId"`
	SubjectID string       `gorm:"type:uuid;not null"                                                json:"subjectId"`
	Entries   []ScoreEntry `gorm:"foreignKey:MarksID;references:MarksID;constraint:OnDelete:CASCADE" json:"marks"`
	BaseModel

	// 关联（无外键约束，学生/科目删除后可能为空）
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (MarksRecord) TableName() string { return "marks_records" }

// ScoreEntry 单次考试成绩，对应 score_entries
// StudentID/SubjectID 冗余自所属记录，用于 (student, subject, exam_type) 唯一约束
type ScoreEntry struct {
	EntryID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	MarksID    string    `gorm:"type:uuid;not null"                             json:"-"`
	StudentID  string    `gorm:"type:uuid;not null"                             json:"-"`
	SubjectID  string    `gorm:"type:uuid;not null"                             json:"-"`
	ExamType   string    `gorm:"type:varchar(20);not null"                      json:"examType"`
	Score      int       `gorm:"not null"                                       json:"score"`
	Position   int       `gorm:"not null;default:0"                             json:"-"`
	RecordedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"date"`
}

// TableName 指定表名
func (ScoreEntry) TableName() string { return "score_entries" }
