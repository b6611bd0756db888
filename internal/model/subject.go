package model

// Subject 科目表，对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	Name      string `gorm:"column:subject_name;type:varchar(150);not null" json:"subject_name"`
	Branch    string `gorm:"type:varchar(100);not null"                     json:"branch"`
	Semester  int    `gorm:"not null"                                       json:"semester"`
	Code      string `gorm:"column:subject_code;type:varchar(30);not null"  json:"subject_code"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
