package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/model"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// StudentFilter 学生列表筛选条件，零值表示不过滤
type StudentFilter struct {
	Branch         string
	Batch          string
	GraduationYear int
}

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	// Delete 不级联删除成绩，成绩记录保留为孤立数据
	Delete(ctx context.Context, id string) error
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return pkgerrors.TranslateDB(r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, filter StudentFilter) ([]model.Student, error) {
	var students []model.Student

	db := r.db.WithContext(ctx).Model(&model.Student{})
	if filter.Branch != "" {
		db = db.Where("student_branch = ?", filter.Branch)
	}
	if filter.Batch != "" {
		db = db.Where("student_batch = ?", filter.Batch)
	}
	if filter.GraduationYear != 0 {
		db = db.Where("student_graduation_year = ?", filter.GraduationYear)
	}

	err := db.Order("student_rollno ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return pkgerrors.TranslateDB(r.db.WithContext(ctx).Save(student).Error)
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		Delete(&model.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
