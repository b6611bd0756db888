package grading

import (
	"time"

	"github.com/KedarDamale/MarksMania/internal/model"
)

// 学期范围（四年制共 8 个学期）
const (
	MinSemester = 1
	MaxSemester = 8

	programYears = 4
)

// CurrentSemester 根据毕业年份和当前日期推算学生当前所在学期
//
// 1-6 月为上半年（偶数学期），7-12 月为下半年（奇数学期）。
// 超出 [1,8] 的结果被截断而不报错；毕业年份的合法性在写入时校验。
func CurrentSemester(graduationYear int, today time.Time) int {
	yearsToGraduation := graduationYear - today.Year()

	semester := (programYears - yearsToGraduation) * 2
	if today.Month() > time.June {
		semester--
	}

	return clampSemester(semester)
}

// IsValidSemester 判断学期编号是否在 [1,8]
func IsValidSemester(semester int) bool {
	return semester >= MinSemester && semester <= MaxSemester
}

// FilterBySemester 返回当前处于指定学期的学生，保持输入顺序
func FilterBySemester(students []model.Student, semester int, today time.Time) []model.Student {
	result := make([]model.Student, 0, len(students))
	for _, s := range students {
		if CurrentSemester(s.GraduationYear, today) == semester {
			result = append(result, s)
		}
	}
	return result
}

func clampSemester(semester int) int {
	if semester < MinSemester {
		return MinSemester
	}
	if semester > MaxSemester {
		return MaxSemester
	}
	return semester
}
