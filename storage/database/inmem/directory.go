package inmemdb

import (
	"context"
	"sync"

	"github.com/jbmukiza/mahudhurio/core/directory"
)

// directoryRepository is an in-memory stand-in for the external Directory
// service. Tests seed it through the Add/Assign methods; the rest of the app
// only ever sees the read-only directory.Repository interface.
type directoryRepository struct {
	mu          sync.RWMutex
	grades      map[string]directory.Grade
	classes     map[string]directory.Class
	teachers    map[string]directory.Teacher
	students    map[string]directory.Student
	assignments map[string]string // classID -> teacherID
}

var _ directory.Repository = (*directoryRepository)(nil)

func NewDirectoryRepository() *directoryRepository {
	return &directoryRepository{
		grades:      make(map[string]directory.Grade),
		classes:     make(map[string]directory.Class),
		teachers:    make(map[string]directory.Teacher),
		students:    make(map[string]directory.Student),
		assignments: make(map[string]string),
	}
}

func (repo *directoryRepository) AddGrade(g directory.Grade) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.grades[g.ID] = g
}

func (repo *directoryRepository) AddClass(c directory.Class) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.classes[c.ID] = c
}

func (repo *directoryRepository) AddTeacher(t directory.Teacher) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.teachers[t.ID] = t
}

func (repo *directoryRepository) AddStudent(s directory.Student) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.students[s.ID] = s
}

func (repo *directoryRepository) AssignTeacher(classID, teacherID string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.assignments[classID] = teacherID
}

func (repo *directoryRepository) GetStudent(_ context.Context, studentID string) (directory.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if std, ok := repo.students[studentID]; ok {
		return std, nil
	}
	return directory.Student{}, directory.ErrNotFound
}

func (repo *directoryRepository) GetClass(_ context.Context, classID string) (directory.Class, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if cls, ok := repo.classes[classID]; ok {
		return cls, nil
	}
	return directory.Class{}, directory.ErrNotFound
}

func (repo *directoryRepository) IsStudentInClass(_ context.Context, studentID, classID string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	std, ok := repo.students[studentID]
	return ok && std.ClassID == classID, nil
}

func (repo *directoryRepository) IsTeacherAssigned(_ context.Context, teacherID, classID string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.assignments[classID] == teacherID, nil
}
