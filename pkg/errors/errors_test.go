package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestTranslateDB_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_students_reg"}
	err := TranslateDB(fmt.Errorf("insert: %w", pgErr))

	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("期望 ErrDuplicate，实际: %v", err)
	}
	if got := ConstraintOf(err); got != "uq_students_reg" {
		t.Errorf("期望约束名 uq_students_reg，实际: %s", got)
	}
	if !errors.As(err, &pgErr) {
		t.Error("应能通过 errors.As 取回原始 PgError")
	}
}

func TestTranslateDB_OtherPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "ck_score_entries_score"}
	err := TranslateDB(pgErr)

	if errors.Is(err, ErrDuplicate) {
		t.Error("CHECK 约束失败不应视为重复")
	}
	if err != error(pgErr) {
		t.Error("非唯一冲突错误应原样返回")
	}
}

func TestTranslateDB_GormDuplicatedKey(t *testing.T) {
	err := TranslateDB(gorm.ErrDuplicatedKey)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("期望 ErrDuplicate，实际: %v", err)
	}
	if ConstraintOf(err) != "" {
		t.Error("gorm 翻译后的错误不携带约束名")
	}
}

func TestTranslateDB_Nil(t *testing.T) {
	if TranslateDB(nil) != nil {
		t.Error("nil 应返回 nil")
	}
}
