package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突：记录已存在
var ErrDuplicate = errors.New("记录已存在")

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// DuplicateError 携带触发冲突的约束名，errors.Is(err, ErrDuplicate) 为 true
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrDuplicate.Error(), e.Constraint)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Unwrap() error { return e.Err }

// TranslateDB 将数据库驱动错误转换为业务可识别的错误
// 目前只识别唯一约束冲突，其余错误原样返回
func TranslateDB(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &DuplicateError{Constraint: pgErr.ConstraintName, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{Err: err}
	}
	return err
}

// ConstraintOf 返回冲突约束名；非冲突错误返回空串
func ConstraintOf(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}
