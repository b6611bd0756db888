package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/internal/repository"
	pkgerrors "github.com/KedarDamale/MarksMania/pkg/errors"
)

// ── 测试辅助 ──

var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type mockRepos struct {
	user    *mockUserRepo
	student *mockStudentRepo
	subject *mockSubjectRepo
	marks   *mockMarksRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:    newMockUserRepo(),
		student: newMockStudentRepo(),
		subject: newMockSubjectRepo(),
		marks:   newMockMarksRepo(),
	}
	return &repository.Repository{
		User:    m.user,
		Student: m.student,
		Subject: m.subject,
		Marks:   m.marks,
	}, m
}

func duplicate(constraint string) error {
	return &pkgerrors.DuplicateError{Constraint: constraint, Err: gorm.ErrDuplicatedKey}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return duplicate("uq_users_username")
		}
	}
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	user.CreatedAt = fixedNow
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) checkUnique(s *model.Student) error {
	for id, other := range m.students {
		if id == s.StudentID {
			continue
		}
		if other.RegNo == s.RegNo {
			return duplicate("uq_students_reg")
		}
		if other.RollNo == s.RollNo {
			return duplicate("uq_students_rollno")
		}
	}
	return nil
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	if err := m.checkUnique(s); err != nil {
		return err
	}
	m.seq++
	if s.StudentID == "" {
		s.StudentID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	}
	s.CreatedAt, s.UpdatedAt = fixedNow, fixedNow
	cp := *s
	m.students[s.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, f repository.StudentFilter) ([]model.Student, error) {
	result := []model.Student{}
	for _, s := range m.students {
		if f.Branch != "" && s.Branch != f.Branch {
			continue
		}
		if f.Batch != "" && s.Batch != f.Batch {
			continue
		}
		if f.GraduationYear != 0 && s.GraduationYear != f.GraduationYear {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RollNo < result[j].RollNo })
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	if err := m.checkUnique(s); err != nil {
		return err
	}
	cp := *s
	m.students[s.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	seq      int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, s *model.Subject) error {
	for _, other := range m.subjects {
		if other.Code == s.Code {
			return duplicate("uq_subjects_code")
		}
	}
	m.seq++
	if s.SubjectID == "" {
		s.SubjectID = fmt.Sprintf("11111111-0000-0000-0000-%012d", m.seq)
	}
	cp := *s
	m.subjects[s.SubjectID] = &cp
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	result := []model.Subject{}
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) List(_ context.Context, f repository.SubjectFilter) ([]model.Subject, error) {
	result := []model.Subject{}
	for _, s := range m.subjects {
		if f.Branch != "" && s.Branch != f.Branch {
			continue
		}
		if f.Semester != 0 && s.Semester != f.Semester {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, s *model.Subject) error {
	for id, other := range m.subjects {
		if id != s.SubjectID && other.Code == s.Code {
			return duplicate("uq_subjects_code")
		}
	}
	cp := *s
	m.subjects[s.SubjectID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.subjects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.subjects, id)
	return nil
}

// ── Mock MarksRepository ──
// 模拟 score_entries 上 (student_id, subject_id, exam_type) 唯一约束

type mockMarksRepo struct {
	records map[string]*model.MarksRecord
	order   []string
	seq     int
	subject *mockSubjectRepo // 用于 ListByStudent 展开科目，可为 nil
}

func newMockMarksRepo() *mockMarksRepo {
	return &mockMarksRepo{records: make(map[string]*model.MarksRecord)}
}

func (m *mockMarksRepo) taken(except string) map[string]bool {
	set := make(map[string]bool)
	for id, r := range m.records {
		if id == except {
			continue
		}
		for _, e := range r.Entries {
			set[e.StudentID+"|"+e.SubjectID+"|"+e.ExamType] = true
		}
	}
	return set
}

func (m *mockMarksRepo) conflicts(set map[string]bool, r *model.MarksRecord) bool {
	for _, e := range r.Entries {
		k := e.StudentID + "|" + e.SubjectID + "|" + e.ExamType
		if set[k] {
			return true
		}
		set[k] = true
	}
	return false
}

func (m *mockMarksRepo) insert(r *model.MarksRecord) {
	m.seq++
	r.MarksID = fmt.Sprintf("22222222-0000-0000-0000-%012d", m.seq)
	r.CreatedAt, r.UpdatedAt = fixedNow, fixedNow
	for i := range r.Entries {
		r.Entries[i].MarksID = r.MarksID
		r.Entries[i].EntryID = fmt.Sprintf("%s-e%d", r.MarksID, i)
	}
	cp := *r
	cp.Entries = append([]model.ScoreEntry(nil), r.Entries...)
	cp.Subject = nil
	m.records[r.MarksID] = &cp
	m.order = append(m.order, r.MarksID)
}

func (m *mockMarksRepo) Create(_ context.Context, r *model.MarksRecord) error {
	if m.conflicts(m.taken(""), r) {
		return duplicate("uq_score_entries_student_subject_exam")
	}
	m.insert(r)
	return nil
}

func (m *mockMarksRepo) CreateBatch(_ context.Context, records []*model.MarksRecord) error {
	// 先整体校验再写入，模拟事务回滚
	set := m.taken("")
	for _, r := range records {
		if m.conflicts(set, r) {
			return duplicate("uq_score_entries_student_subject_exam")
		}
	}
	for _, r := range records {
		m.insert(r)
	}
	return nil
}

func (m *mockMarksRepo) copyOf(r *model.MarksRecord) model.MarksRecord {
	cp := *r
	cp.Entries = append([]model.ScoreEntry(nil), r.Entries...)
	return cp
}

func (m *mockMarksRepo) GetByID(_ context.Context, id string) (*model.MarksRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := m.copyOf(r)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMarksRepo) ListByStudent(_ context.Context, studentID string) ([]model.MarksRecord, error) {
	result := []model.MarksRecord{}
	for _, id := range m.order {
		r, ok := m.records[id]
		if !ok || r.StudentID != studentID {
			continue
		}
		cp := m.copyOf(r)
		if m.subject != nil {
			if sub, ok := m.subject.subjects[r.SubjectID]; ok {
				s := *sub
				cp.Subject = &s
			}
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockMarksRepo) ListByStudentIDs(_ context.Context, ids []string) ([]model.MarksRecord, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	result := []model.MarksRecord{}
	for _, id := range m.order {
		if r, ok := m.records[id]; ok && want[r.StudentID] {
			result = append(result, m.copyOf(r))
		}
	}
	return result, nil
}

func (m *mockMarksRepo) ListAll(_ context.Context) ([]model.MarksRecord, error) {
	result := []model.MarksRecord{}
	for _, id := range m.order {
		if r, ok := m.records[id]; ok {
			result = append(result, m.copyOf(r))
		}
	}
	return result, nil
}

func (m *mockMarksRepo) Update(_ context.Context, r *model.MarksRecord, _ bool) error {
	if _, ok := m.records[r.MarksID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.conflicts(m.taken(r.MarksID), r) {
		return duplicate("uq_score_entries_student_subject_exam")
	}
	cp := m.copyOf(r)
	cp.Subject = nil
	m.records[r.MarksID] = &cp
	return nil
}

func (m *mockMarksRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}
