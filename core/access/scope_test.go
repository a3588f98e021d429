package access_test

import (
	"context"
	"testing"

	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/directory"
	"github.com/jbmukiza/mahudhurio/storage/database/inmem"
	"github.com/jbmukiza/mahudhurio/tests"
)

func setupScope() access.Scope {
	dirRepo := inmemdb.NewDirectoryRepository()
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g1",
		ClassID:   "c1",
		TeacherID: "t1",
		Students:  []directory.Student{{ID: "s1", Name: "Amani"}},
	})
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g1",
		ClassID:   "c2",
		TeacherID: "t2",
		Students:  []directory.Student{{ID: "s2", Name: "Baraka"}},
	})
	return access.NewScope(directory.NewService(dirRepo))
}

func TestScope(t *testing.T) {
	scope := setupScope()
	ctx := context.Background()

	admin := access.Identity{ID: "adm1", Role: access.RoleSuperAdmin}
	teacher1 := access.Identity{ID: "t1", Role: access.RoleTeacher}
	teacher2 := access.Identity{ID: "t2", Role: access.RoleTeacher}
	student1 := access.Identity{ID: "s1", Role: access.RoleStudent}
	student2 := access.Identity{ID: "s2", Role: access.RoleStudent}
	unknownRole := access.Identity{ID: "x1", Role: "guardian"}

	tests := []struct {
		name  string
		check func() error
		deny  bool
	}{
		// class reads
		{name: "admin reads class", check: func() error { return scope.CanReadClass(ctx, admin, "c1") }},
		{name: "assigned teacher reads class", check: func() error { return scope.CanReadClass(ctx, teacher1, "c1") }},
		{name: "unassigned teacher denied class read", check: func() error { return scope.CanReadClass(ctx, teacher2, "c1") }, deny: true},
		{name: "student denied own class read", check: func() error { return scope.CanReadClass(ctx, student1, "c1") }, deny: true},
		{name: "unknown role denied class read", check: func() error { return scope.CanReadClass(ctx, unknownRole, "c1") }, deny: true},
		{name: "teacher denied unknown class", check: func() error { return scope.CanReadClass(ctx, teacher1, "nope") }, deny: true},

		// class writes
		{name: "admin writes class", check: func() error { return scope.CanWriteClass(ctx, admin, "c2") }},
		{name: "assigned teacher writes class", check: func() error { return scope.CanWriteClass(ctx, teacher2, "c2") }},
		{name: "unassigned teacher denied write", check: func() error { return scope.CanWriteClass(ctx, teacher1, "c2") }, deny: true},
		{name: "student denied write", check: func() error { return scope.CanWriteClass(ctx, student2, "c2") }, deny: true},

		// student reads
		{name: "admin reads any student", check: func() error { return scope.CanReadStudent(ctx, admin, "s1") }},
		{name: "student reads self", check: func() error { return scope.CanReadStudent(ctx, student1, "s1") }},
		{name: "student denied other student", check: func() error { return scope.CanReadStudent(ctx, student1, "s2") }, deny: true},
		{name: "teacher reads student of assigned class", check: func() error { return scope.CanReadStudent(ctx, teacher1, "s1") }},
		{name: "teacher denied student of other class", check: func() error { return scope.CanReadStudent(ctx, teacher1, "s2") }, deny: true},
		{name: "teacher denied missing student", check: func() error { return scope.CanReadStudent(ctx, teacher1, "ghost") }, deny: true},
		{name: "unknown role denied student read", check: func() error { return scope.CanReadStudent(ctx, unknownRole, "s1") }, deny: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.deny && err != access.ErrDenied {
				t.Errorf("error = %v, want ErrDenied", err)
			}
			if !tt.deny && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// A missing student and a forbidden student look the same to the caller.
func TestScope_deniedDoesNotLeakExistence(t *testing.T) {
	scope := setupScope()
	ctx := context.Background()
	teacher := access.Identity{ID: "t1", Role: access.RoleTeacher}

	forbidden := scope.CanReadStudent(ctx, teacher, "s2")  // exists, other class
	missing := scope.CanReadStudent(ctx, teacher, "ghost") // does not exist

	if forbidden != missing {
		t.Errorf("errors differ: %v vs %v", forbidden, missing)
	}
	if forbidden == nil || forbidden.Error() != "permission denied" {
		t.Errorf("error = %v, want bare permission denied", forbidden)
	}
}
