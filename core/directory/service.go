package directory

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("directory record not found")

type (
	Repository interface {
		GetStudent(ctx context.Context, studentID string) (Student, error)
		GetClass(ctx context.Context, classID string) (Class, error)
		// IsStudentInClass reports current membership of studentID in classID.
		IsStudentInClass(ctx context.Context, studentID, classID string) (bool, error)
		// IsTeacherAssigned reports whether teacherID is the assigned teacher of classID.
		IsTeacherAssigned(ctx context.Context, teacherID, classID string) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return Service{repo: repo}
}

func (svc Service) GetStudent(ctx context.Context, studentID string) (Student, error) {
	return svc.repo.GetStudent(ctx, studentID)
}

func (svc Service) GetClass(ctx context.Context, classID string) (Class, error) {
	return svc.repo.GetClass(ctx, classID)
}

func (svc Service) IsStudentInClass(ctx context.Context, studentID, classID string) (bool, error) {
	return svc.repo.IsStudentInClass(ctx, studentID, classID)
}

func (svc Service) IsTeacherAssigned(ctx context.Context, teacherID, classID string) (bool, error) {
	return svc.repo.IsTeacherAssigned(ctx, teacherID, classID)
}
