package model

// Student 学生表，对应 students
// 学期不落库，由毕业年份与当前日期推算
type Student struct {
	StudentID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	RegNo          string `gorm:"column:student_reg;type:varchar(50);not null"     json:"student_reg"`
	Name           string `gorm:"column:student_name;type:varchar(100);not null"   json:"student_name"`
	Branch         string `gorm:"column:student_branch;type:varchar(100);not null" json:"student_branch"`
	GraduationYear int    `gorm:"column:student_graduation_year;not null"          json:"student_graduation_year"`
	Batch          string `gorm:"column:student_batch;type:varchar(20);not null"   json:"student_batch"`
	RollNo         int    `gorm:"column:student_rollno;not null"                   json:"student_rollno"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
