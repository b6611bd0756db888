package grading

import (
	"sort"

	"github.com/KedarDamale/MarksMania/internal/model"
)

// StudentSubject 成绩表格的单元格键
type StudentSubject struct {
	StudentID string
	SubjectID string
}

// PerformanceStats 某分组内按"单条成绩记录均分"统计的表现
type PerformanceStats struct {
	Average float64 `json:"average"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
	Count   int     `json:"count"`
}

// Summary 看板统计快照，每次由完整数据重新计算
type Summary struct {
	TotalStudents      int                         `json:"totalStudents"`
	TotalSubjects      int                         `json:"totalSubjects"`
	TotalMarks         int                         `json:"totalMarks"`
	BranchAverage      map[string]float64          `json:"branchAverage"`
	SubjectAverage     map[string]float64          `json:"subjectAverage"`
	BranchDistribution map[string]int              `json:"branchDistribution"`
	BatchDistribution  map[string]int              `json:"batchDistribution"`
	BranchPerformance  map[string]PerformanceStats `json:"branchPerformance"`
}

// Summarize 计算看板所需的全部统计视图
func Summarize(students []model.Student, subjects []model.Subject, marks []model.MarksRecord) Summary {
	return Summary{
		TotalStudents:      len(students),
		TotalSubjects:      len(subjects),
		TotalMarks:         len(marks),
		BranchAverage:      BranchAverage(students, marks),
		SubjectAverage:     SubjectAverage(subjects, marks),
		BranchDistribution: BranchDistribution(students),
		BatchDistribution:  BatchDistribution(students),
		BranchPerformance:  BranchPerformanceStats(students, marks),
	}
}

// BranchAverage 各专业平均分：每条成绩记录先取均分，再按学生专业求平均
// 没有任何成绩记录的专业不出现在结果中
func BranchAverage(students []model.Student, marks []model.MarksRecord) map[string]float64 {
	result := make(map[string]float64)
	for branch, means := range branchMeans(students, marks) {
		result[branch] = sum(means) / float64(len(means))
	}
	return result
}

// BranchPerformanceStats 各专业的平均/最高/最低分（统计单位同 BranchAverage）
func BranchPerformanceStats(students []model.Student, marks []model.MarksRecord) map[string]PerformanceStats {
	result := make(map[string]PerformanceStats)
	for branch, means := range branchMeans(students, marks) {
		// branchMeans 已排序
		result[branch] = PerformanceStats{
			Average: sum(means) / float64(len(means)),
			Highest: means[len(means)-1],
			Lowest:  means[0],
			Count:   len(means),
		}
	}
	return result
}

// SubjectAverage 各科目平均分：该科目下所有单次成绩（跨学生、跨考试类型）的算术平均
// 键为 SubjectID，仅统计 subjects 中出现的科目
func SubjectAverage(subjects []model.Subject, marks []model.MarksRecord) map[string]float64 {
	known := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		known[s.SubjectID] = true
	}

	type acc struct{ total, count int }
	accs := make(map[string]*acc)
	for _, m := range marks {
		if !known[m.SubjectID] || len(m.Entries) == 0 {
			continue
		}
		a, ok := accs[m.SubjectID]
		if !ok {
			a = &acc{}
			accs[m.SubjectID] = a
		}
		for _, e := range m.Entries {
			a.total += e.Score
			a.count++
		}
	}

	result := make(map[string]float64, len(accs))
	for id, a := range accs {
		result[id] = float64(a.total) / float64(a.count)
	}
	return result
}

// BranchDistribution 各专业学生人数
func BranchDistribution(students []model.Student) map[string]int {
	result := make(map[string]int)
	for _, s := range students {
		result[s.Branch]++
	}
	return result
}

// BatchDistribution 各批次学生人数
func BatchDistribution(students []model.Student) map[string]int {
	result := make(map[string]int)
	for _, s := range students {
		result[s.Batch]++
	}
	return result
}

// PerStudentSubjectScore 指定考试类型下 (学生, 科目) → 分数
// 缺失的组合不出现在结果中，由展示层渲染为 N/A。
// 同一组合出现多条同类型成绩时取记录时间最新的一条。
func PerStudentSubjectScore(marks []model.MarksRecord, examType string) map[StudentSubject]int {
	best := make(map[StudentSubject]model.ScoreEntry)

	for _, m := range marks {
		key := StudentSubject{StudentID: m.StudentID, SubjectID: m.SubjectID}
		for _, e := range m.Entries {
			if e.ExamType != examType {
				continue
			}
			if cur, ok := best[key]; ok && !newer(e, cur) {
				continue
			}
			best[key] = e
		}
	}

	result := make(map[StudentSubject]int, len(best))
	for k, e := range best {
		result[k] = e.Score
	}
	return result
}

// ── 内部辅助 ──

// recordMean 单条成绩记录的均分；无成绩时返回 false
func recordMean(m model.MarksRecord) (float64, bool) {
	if len(m.Entries) == 0 {
		return 0, false
	}
	total := 0
	for _, e := range m.Entries {
		total += e.Score
	}
	return float64(total) / float64(len(m.Entries)), true
}

// branchMeans 按专业收集每条成绩记录的均分，结果升序排列以保证求和顺序与输入顺序无关
func branchMeans(students []model.Student, marks []model.MarksRecord) map[string][]float64 {
	branchOf := make(map[string]string, len(students))
	for _, s := range students {
		branchOf[s.StudentID] = s.Branch
	}

	result := make(map[string][]float64)
	for _, m := range marks {
		branch, ok := branchOf[m.StudentID]
		if !ok {
			continue
		}
		mean, ok := recordMean(m)
		if !ok {
			continue
		}
		result[branch] = append(result[branch], mean)
	}

	for _, means := range result {
		sort.Float64s(means)
	}
	return result
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// newer 判断 a 是否比 b 更新；时间相同时按 EntryID 决定，保证结果确定
func newer(a, b model.ScoreEntry) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.After(b.RecordedAt)
	}
	return a.EntryID > b.EntryID
}
