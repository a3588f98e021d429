package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

type recordRow struct {
	ID         string    `db:"id"`
	Date       time.Time `db:"date"`
	ClassID    string    `db:"class_id"`
	StudentID  string    `db:"student_id"`
	Status     string    `db:"status"`
	MarkedByID string    `db:"marked_by_id"`
	MarkedAt   time.Time `db:"marked_at"`
}

func toRow(rec attendance.Record) recordRow {
	return recordRow{
		ID:         rec.ID,
		Date:       rec.Date,
		ClassID:    rec.ClassID,
		StudentID:  rec.StudentID,
		Status:     string(rec.Status),
		MarkedByID: rec.MarkedByID,
		MarkedAt:   rec.MarkedAt,
	}
}

func fromRow(row recordRow) attendance.Record {
	return attendance.Record{
		ID:         row.ID,
		Date:       attendance.NormalizeDate(row.Date),
		ClassID:    row.ClassID,
		StudentID:  row.StudentID,
		Status:     attendance.Status(row.Status),
		MarkedByID: row.MarkedByID,
		MarkedAt:   row.MarkedAt.UTC(),
	}
}

// orderings whitelists sortable columns; anything else is silently dropped
// rather than interpolated into SQL.
func orderings(ordering []core.DBOrdering) string {
	clause := ""
	for _, ord := range ordering {
		switch ord.Field {
		case "date", "marked_at":
		default:
			continue
		}
		if clause == "" {
			clause = " ORDER BY " + ord.String()
		} else {
			clause += ", " + ord.String()
		}
	}
	return clause
}

func (repo *attendanceRepository) GetClassDate(ctx context.Context, classID string, date time.Time) (map[string]attendance.Status, error) {
	var rows []struct {
		StudentID string `db:"student_id"`
		Status    string `db:"status"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT student_id, status FROM attendance_record WHERE class_id = $1 AND date = $2`,
		classID, date,
	)
	if err != nil {
		return nil, &attendance.StoreError{Op: "querying class date", Err: err}
	}

	statuses := make(map[string]attendance.Status, len(rows))
	for _, row := range rows {
		statuses[row.StudentID] = attendance.Status(row.Status)
	}
	return statuses, nil
}

func (repo *attendanceRepository) GetByStudent(ctx context.Context, studentID string, ordering ...core.DBOrdering) ([]attendance.Record, error) {
	var rows []recordRow
	query := `SELECT id, date, class_id, student_id, status, marked_by_id, marked_at
		FROM attendance_record WHERE student_id = $1` + orderings(ordering)
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, &attendance.StoreError{Op: "querying student records", Err: err}
	}

	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row))
	}
	return records, nil
}

// ReplaceClassDate removes every record for (classID, date) and inserts the
// given set in a single transaction, so the ledger can never settle into
// "all removed, none replaced".
func (repo *attendanceRepository) ReplaceClassDate(ctx context.Context, classID string, date time.Time, records []attendance.Record) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return &attendance.StoreError{Op: "beginning replace", Err: err}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM attendance_record WHERE class_id = $1 AND date = $2`, classID, date,
	); err != nil {
		_ = tx.Rollback()
		return &attendance.StoreError{Op: "removing class date", Err: err}
	}

	for _, rec := range records {
		if _, err = tx.NamedExecContext(ctx,
			`INSERT INTO attendance_record (id, date, class_id, student_id, status, marked_by_id, marked_at)
			VALUES (:id, :date, :class_id, :student_id, :status, :marked_by_id, :marked_at)`,
			toRow(rec),
		); err != nil {
			_ = tx.Rollback()
			return &attendance.StoreError{Op: "inserting records", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return &attendance.StoreError{Op: "committing replace", Err: err}
	}
	return nil
}
