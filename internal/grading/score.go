package grading

import "github.com/KedarDamale/MarksMania/internal/model"

// MinScore 所有考试类型的最低分
const MinScore = 0

// 各考试类型满分
var maxScores = map[string]int{
	model.ExamTypeIA1:      20,
	model.ExamTypeIA2:      20,
	model.ExamTypeSemester: 80,
}

// IsValidExamType 判断考试类型是否合法
func IsValidExamType(examType string) bool {
	_, ok := maxScores[examType]
	return ok
}

// MaxScore 返回考试类型的满分；未知类型返回 false
func MaxScore(examType string) (int, bool) {
	max, ok := maxScores[examType]
	return max, ok
}

// IsValidScore 判断分数是否落在该考试类型的合法区间内
func IsValidScore(examType string, score int) bool {
	max, ok := maxScores[examType]
	if !ok {
		return false
	}
	return score >= MinScore && score <= max
}
