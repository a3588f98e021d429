package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/directory"
)

type (
	// UnknownStudentError rejects a save containing a student that the
	// directory does not report as a member of the target class. The whole
	// save is rejected; nothing is committed.
	UnknownStudentError struct {
		StudentID string
	}

	// StoreError signals that the underlying store failed. The failed
	// operation is safe to retry: a save either commits whole or not at all.
	StoreError struct {
		Op  string
		Err error
	}
)

func (e *UnknownStudentError) Error() string {
	return fmt.Sprintf("student %s is not a member of this class", e.StudentID)
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("attendance store: %s: %v", e.Op, e.Err)
}

type (
	// Repository holds the canonical attendance record set.
	//
	// ReplaceClassDate must be atomic: it removes every record for
	// (classID, date) and inserts the given set as one unit, so that
	// concurrent readers observe either the old or the new set, never a
	// partially cleared one. An empty records slice clears the day.
	Repository interface {
		GetClassDate(ctx context.Context, classID string, date time.Time) (map[string]Status, error)
		// GetByStudent returns all records for one student across all dates.
		// No ordering is guaranteed unless the caller passes one.
		GetByStudent(ctx context.Context, studentID string, ordering ...core.DBOrdering) ([]Record, error)
		ReplaceClassDate(ctx context.Context, classID string, date time.Time, records []Record) error
	}

	// Service is the attendance ledger. All writes go through Save, which
	// serializes on a per (classID, date) mutex so two concurrent saves of
	// the same sheet cannot interleave their remove/insert phases.
	Service struct {
		repo Repository
		dir  directory.Service

		mu    sync.Mutex
		locks map[string]*sync.Mutex
	}
)

func NewService(repo Repository, dir directory.Service) *Service {
	return &Service{
		repo:  repo,
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (svc *Service) ReadByClassDate(ctx context.Context, classID string, date time.Time) (map[string]Status, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	return svc.repo.GetClassDate(ctx, classID, NormalizeDate(date))
}

func (svc *Service) ReadByStudent(ctx context.Context, studentID string, ordering ...core.DBOrdering) ([]Record, error) {
	return svc.repo.GetByStudent(ctx, studentID, ordering...)
}

// Save atomically replaces the whole record set for (classID, date) with one
// record per entry in statusByStudent. A student with a prior record for that
// date who is absent from statusByStudent loses that record: the operation is
// a full replace, never a merge. An empty map clears the day (idempotent).
//
// All validation happens before any mutation; a rejected save leaves the
// ledger untouched. Every record of one save shares a single MarkedAt
// timestamp captured once per call.
func (svc *Service) Save(ctx context.Context, classID string, date time.Time, statusByStudent map[string]Status, markedByID string) ([]Record, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	date = NormalizeDate(date)

	if _, err := svc.dir.GetClass(ctx, classID); err != nil {
		if err == directory.ErrNotFound {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: "unknown class"})
		}
		return nil, errors.Wrap(err, "looking up class")
	}

	// validate in deterministic order so the first offending student is stable
	studentIDs := make([]string, 0, len(statusByStudent))
	for studentID := range statusByStudent {
		studentIDs = append(studentIDs, studentID)
	}
	sort.Strings(studentIDs)

	for _, studentID := range studentIDs {
		if status := statusByStudent[studentID]; !status.Valid() {
			return nil, core.NewValidationError(
				ErrUnknownStatus,
				core.FieldError{Field: studentID, Error: fmt.Sprintf("unknown status %q", status)},
			)
		}
		ok, err := svc.dir.IsStudentInClass(ctx, studentID, classID)
		if err != nil {
			return nil, errors.Wrap(err, "checking class membership")
		}
		if !ok {
			return nil, &UnknownStudentError{StudentID: studentID}
		}
	}

	lock := svc.lockFor(classID, date)
	lock.Lock()
	defer lock.Unlock()

	markedAt := time.Now().UTC()
	records := make([]Record, 0, len(statusByStudent))
	for _, studentID := range studentIDs {
		records = append(records, Record{
			ID:         uuid.New().String(),
			Date:       date,
			ClassID:    classID,
			StudentID:  studentID,
			Status:     statusByStudent[studentID],
			MarkedByID: markedByID,
			MarkedAt:   markedAt,
		})
	}

	if err := svc.repo.ReplaceClassDate(ctx, classID, date, records); err != nil {
		return nil, err
	}
	return records, nil
}

// lockFor returns the mutex guarding one (classID, date) pair, creating it on
// first use. Entries live for the process lifetime; the key space is bounded
// by classes × school days actually saved through this process.
func (svc *Service) lockFor(classID string, date time.Time) *sync.Mutex {
	key := classID + "|" + date.Format(DateLayout)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	lock, ok := svc.locks[key]
	if !ok {
		lock = new(sync.Mutex)
		svc.locks[key] = lock
	}
	return lock
}
