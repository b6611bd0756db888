package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/model"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// MarksRepository 成绩数据访问接口
// 成绩记录与学生/科目之间无外键，学生或科目删除后成绩仍保留
type MarksRepository interface {
	// Create 写入一条成绩记录及其全部单次成绩
	Create(ctx context.Context, record *model.MarksRecord) error
	// CreateBatch 在同一事务内写入多条记录，任一失败整体回滚
	CreateBatch(ctx context.Context, records []*model.MarksRecord) error
	GetByID(ctx context.Context, id string) (*model.MarksRecord, error)
	// ListByStudent 按学生查询，展开科目
	ListByStudent(ctx context.Context, studentID string) ([]model.MarksRecord, error)
	ListByStudentIDs(ctx context.Context, studentIDs []string) ([]model.MarksRecord, error)
	ListAll(ctx context.Context) ([]model.MarksRecord, error)
	// Update 更新记录；replaceEntries 为 true 时用 record.Entries 整体替换原有成绩
	Update(ctx context.Context, record *model.MarksRecord, replaceEntries bool) error
	Delete(ctx context.Context, id string) error
}

// marksRepo MarksRepository 的 GORM 实现
type marksRepo struct {
	db *gorm.DB
}

// NewMarksRepo 创建 MarksRepository 实例
func NewMarksRepo(db *gorm.DB) MarksRepository {
	return &marksRepo{db: db}
}

// entriesInOrder 单次成绩按录入顺序预加载
func entriesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *marksRepo) Create(ctx context.Context, record *model.MarksRecord) error {
	return pkgerrors.TranslateDB(r.db.WithContext(ctx).Omit("Subject").Create(record).Error)
}

func (r *marksRepo) CreateBatch(ctx context.Context, records []*model.MarksRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := tx.Omit("Subject").Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return pkgerrors.TranslateDB(err)
}

func (r *marksRepo) GetByID(ctx context.Context, id string) (*model.MarksRecord, error) {
	var record model.MarksRecord
	err := r.db.WithContext(ctx).
		Preload("Entries", entriesInOrder).
		Where("marks_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *marksRepo) ListByStudent(ctx context.Context, studentID string) ([]model.MarksRecord, error) {
	var records []model.MarksRecord
	err := r.db.WithContext(ctx).
		Preload("Entries", entriesInOrder).
		Preload("Subject").
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *marksRepo) ListByStudentIDs(ctx context.Context, studentIDs []string) ([]model.MarksRecord, error) {
	if len(studentIDs) == 0 {
		return []model.MarksRecord{}, nil
	}
	var records []model.MarksRecord
	err := r.db.WithContext(ctx).
		Preload("Entries", entriesInOrder).
		Where("student_id IN ?", studentIDs).
		Find(&records).Error
	return records, err
}

func (r *marksRepo) ListAll(ctx context.Context) ([]model.MarksRecord, error) {
	var records []model.MarksRecord
	err := r.db.WithContext(ctx).
		Preload("Entries", entriesInOrder).
		Find(&records).Error
	return records, err
}

func (r *marksRepo) Update(ctx context.Context, record *model.MarksRecord, replaceEntries bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries", "Subject").Save(record).Error; err != nil {
			return err
		}

		if !replaceEntries {
			// 同步冗余的 student_id/subject_id，保持唯一约束有效
			return tx.Model(&model.ScoreEntry{}).
				Where("marks_id = ?", record.MarksID).
				Updates(map[string]interface{}{
					"student_id": record.StudentID,
					"subject_id": record.SubjectID,
				}).Error
		}

		// 替换场景硬删除旧成绩
		if err := tx.Where("marks_id = ?", record.MarksID).
			Delete(&model.ScoreEntry{}).Error; err != nil {
			return err
		}
		if len(record.Entries) == 0 {
			return nil
		}
		for i := range record.Entries {
			record.Entries[i].MarksID = record.MarksID
		}
		return tx.Create(&record.Entries).Error
	})
	return pkgerrors.TranslateDB(err)
}

func (r *marksRepo) Delete(ctx context.Context, id string) error {
	// score_entries 由外键级联删除
	result := r.db.WithContext(ctx).
		Where("marks_id = ?", id).
		Delete(&model.MarksRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
