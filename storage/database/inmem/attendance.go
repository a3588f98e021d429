package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/attendance"
)

// attendanceRepository keeps the whole ledger in memory. Used by tests and
// local development; it honors the same atomicity contract as the SQL
// implementation (a replace is one critical section, so readers never observe
// a half-cleared day).
type attendanceRepository struct {
	mu sync.RWMutex
	// byClassDate: "classID|date" -> studentID -> Record
	byClassDate map[string]map[string]attendance.Record
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository() *attendanceRepository {
	return &attendanceRepository{
		byClassDate: make(map[string]map[string]attendance.Record),
	}
}

func classDateKey(classID string, date time.Time) string {
	return classID + "|" + date.Format(attendance.DateLayout)
}

func (repo *attendanceRepository) GetClassDate(_ context.Context, classID string, date time.Time) (map[string]attendance.Status, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	statuses := make(map[string]attendance.Status)
	for studentID, rec := range repo.byClassDate[classDateKey(classID, date)] {
		statuses[studentID] = rec.Status
	}
	return statuses, nil
}

func (repo *attendanceRepository) GetByStudent(_ context.Context, studentID string, ordering ...core.DBOrdering) ([]attendance.Record, error) {
	repo.mu.RLock()
	records := make([]attendance.Record, 0)
	for _, day := range repo.byClassDate {
		if rec, ok := day[studentID]; ok {
			records = append(records, rec)
		}
	}
	repo.mu.RUnlock()

	for _, ord := range ordering {
		if ord.Field == "date" {
			ord := ord
			sort.Slice(records, func(i, j int) bool {
				if ord.Ascending {
					return records[i].Date.Before(records[j].Date)
				}
				return records[i].Date.After(records[j].Date)
			})
		}
	}
	return records, nil
}

func (repo *attendanceRepository) ReplaceClassDate(_ context.Context, classID string, date time.Time, records []attendance.Record) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := classDateKey(classID, date)
	delete(repo.byClassDate, key)
	if len(records) == 0 {
		return nil
	}

	day := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		day[rec.StudentID] = rec
	}
	repo.byClassDate[key] = day
	return nil
}
