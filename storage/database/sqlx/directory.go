package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jbmukiza/mahudhurio/core/directory"
)

// directoryRepository reads the directory reference tables. This service
// never writes them; they are synced from the Directory collaborator.
type directoryRepository struct {
	db *sqlx.DB
}

var _ directory.Repository = (*directoryRepository)(nil)

func NewDirectoryRepository(db *sqlx.DB) *directoryRepository {
	return &directoryRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" to directory.ErrNotFound.
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return directory.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *directoryRepository) GetStudent(ctx context.Context, studentID string) (directory.Student, error) {
	var row struct {
		ID            string `db:"id"`
		Name          string `db:"name"`
		ClassID       string `db:"class_id"`
		GuardianEmail string `db:"guardian_email"`
	}
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, class_id, guardian_email FROM student WHERE id = $1`, studentID,
	)
	if err != nil {
		return directory.Student{}, trapNoRowsErr(err, "getting student")
	}
	return directory.Student{
		ID:            row.ID,
		Name:          row.Name,
		ClassID:       row.ClassID,
		GuardianEmail: row.GuardianEmail,
	}, nil
}

func (repo *directoryRepository) GetClass(ctx context.Context, classID string) (directory.Class, error) {
	var row struct {
		ID      string `db:"id"`
		Name    string `db:"name"`
		GradeID string `db:"grade_id"`
	}
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, grade_id FROM class WHERE id = $1`, classID,
	)
	if err != nil {
		return directory.Class{}, trapNoRowsErr(err, "getting class")
	}
	return directory.Class{ID: row.ID, Name: row.Name, GradeID: row.GradeID}, nil
}

func (repo *directoryRepository) IsStudentInClass(ctx context.Context, studentID, classID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM student WHERE id = $1 AND class_id = $2)`,
		studentID, classID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking class membership")
	}
	return exists, nil
}

func (repo *directoryRepository) IsTeacherAssigned(ctx context.Context, teacherID, classID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM class_teacher WHERE teacher_id = $1 AND class_id = $2)`,
		teacherID, classID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking teacher assignment")
	}
	return exists, nil
}
