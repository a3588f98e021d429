package testutil

import (
	"time"

	"github.com/jbmukiza/mahudhurio/core/directory"
)

// Date builds a day-granular UTC date the way the ledger stores them.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DirectorySeeder is satisfied by the in-memory directory repository; tests
// use it to stand up reference data without a live Directory service.
type DirectorySeeder interface {
	AddGrade(directory.Grade)
	AddClass(directory.Class)
	AddTeacher(directory.Teacher)
	AddStudent(directory.Student)
	AssignTeacher(classID, teacherID string)
}

// ClassSeed describes one class worth of directory data.
type ClassSeed struct {
	GradeID   string
	ClassID   string
	TeacherID string
	Students  []directory.Student // ClassID is filled in if empty
}

func SeedClass(dir DirectorySeeder, seed ClassSeed) {
	dir.AddGrade(directory.Grade{ID: seed.GradeID, Name: "Grade " + seed.GradeID})
	dir.AddClass(directory.Class{ID: seed.ClassID, Name: "Class " + seed.ClassID, GradeID: seed.GradeID})
	dir.AddTeacher(directory.Teacher{ID: seed.TeacherID, Name: "Teacher " + seed.TeacherID})
	dir.AssignTeacher(seed.ClassID, seed.TeacherID)
	for _, std := range seed.Students {
		if std.ClassID == "" {
			std.ClassID = seed.ClassID
		}
		dir.AddStudent(std)
	}
}
