package model

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// User 教师账号表，对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(50);not null"                      json:"username"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'teacher'"    json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
