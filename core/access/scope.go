package access

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/jbmukiza/mahudhurio/core/directory"
)

// ErrDenied is returned for every failed capability check. The message is
// deliberately generic: a caller must not be able to tell "does not exist"
// apart from "not permitted".
var ErrDenied = errors.New("permission denied")

// Roles as reported by the Identity collaborator.
const (
	RoleSuperAdmin = "superadmin"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
)

// Identity is the authenticated caller as established by the Identity service.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsSuperAdmin() bool { return i.Role == RoleSuperAdmin }
func (i Identity) IsTeacher() bool    { return i.Role == RoleTeacher }
func (i Identity) IsStudent() bool    { return i.Role == RoleStudent }

// Scope answers capability questions for a caller. Every ledger entry point
// goes through a Scope check before touching attendance data so that no call
// site can forget one.
type Scope struct {
	dir directory.Service
}

func NewScope(dir directory.Service) Scope {
	return Scope{dir: dir}
}

// CanReadClass reports whether ident may read attendance of classID.
// Students have no class-level read at all, not even for their own class.
func (s Scope) CanReadClass(ctx context.Context, ident Identity, classID string) error {
	switch {
	case ident.IsSuperAdmin():
		return nil
	case ident.IsTeacher():
		return s.requireAssigned(ctx, ident.ID, classID)
	default:
		return ErrDenied
	}
}

// CanWriteClass reports whether ident may save attendance for classID.
func (s Scope) CanWriteClass(ctx context.Context, ident Identity, classID string) error {
	switch {
	case ident.IsSuperAdmin():
		return nil
	case ident.IsTeacher():
		return s.requireAssigned(ctx, ident.ID, classID)
	default:
		return ErrDenied
	}
}

// CanReadStudent reports whether ident may read studentID's attendance
// history: the student themselves, an admin, or a teacher assigned to the
// class the student belongs to.
func (s Scope) CanReadStudent(ctx context.Context, ident Identity, studentID string) error {
	switch {
	case ident.IsSuperAdmin():
		return nil
	case ident.IsStudent():
		if ident.ID == studentID {
			return nil
		}
		return ErrDenied
	case ident.IsTeacher():
		std, err := s.dir.GetStudent(ctx, studentID)
		if err != nil {
			if err == directory.ErrNotFound {
				return ErrDenied
			}
			return pkgerrors.Wrap(err, "looking up student")
		}
		return s.requireAssigned(ctx, ident.ID, std.ClassID)
	default:
		return ErrDenied
	}
}

func (s Scope) requireAssigned(ctx context.Context, teacherID, classID string) error {
	ok, err := s.dir.IsTeacherAssigned(ctx, teacherID, classID)
	if err != nil {
		return pkgerrors.Wrap(err, "checking teacher assignment")
	}
	if !ok {
		return ErrDenied
	}
	return nil
}
