package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/model"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// SubjectFilter 科目列表筛选条件，零值表示不过滤
type SubjectFilter struct {
	Branch   string
	Semester int
}

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Subject, error)
	List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
}

// subjectRepo SubjectRepository 的 GORM 实现
type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return pkgerrors.TranslateDB(r.db.WithContext(ctx).Create(subject).Error)
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Subject, error) {
	if len(ids) == 0 {
		return []model.Subject{}, nil
	}
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id IN ?", ids).
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error) {
	var subjects []model.Subject

	db := r.db.WithContext(ctx).Model(&model.Subject{})
	if filter.Branch != "" {
		db = db.Where("branch = ?", filter.Branch)
	}
	if filter.Semester != 0 {
		db = db.Where("semester = ?", filter.Semester)
	}

	err := db.Order("semester ASC, subject_code ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	return pkgerrors.TranslateDB(r.db.WithContext(ctx).Save(subject).Error)
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		Delete(&model.Subject{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
