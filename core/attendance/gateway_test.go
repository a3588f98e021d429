package attendance_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/attendance"
	"github.com/jbmukiza/mahudhurio/core/directory"
	"github.com/jbmukiza/mahudhurio/services/email"
	"github.com/jbmukiza/mahudhurio/storage/database/inmem"
	"github.com/jbmukiza/mahudhurio/tests"
)

var (
	admin    = access.Identity{ID: "adm1", Role: access.RoleSuperAdmin}
	teacher1 = access.Identity{ID: "t1", Role: access.RoleTeacher}
	teacher2 = access.Identity{ID: "t2", Role: access.RoleTeacher}
	student1 = access.Identity{ID: "s1", Role: access.RoleStudent}
	student4 = access.Identity{ID: "s4", Role: access.RoleStudent}
)

func setupGateway(withMail bool) *attendance.Gateway {
	dirRepo := inmemdb.NewDirectoryRepository()
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g1",
		ClassID:   "c1",
		TeacherID: "t1",
		Students: []directory.Student{
			{ID: "s1", Name: "Amani", GuardianEmail: "amani.home@test.cd"},
			{ID: "s2", Name: "Baraka", GuardianEmail: "baraka.home@test.cd"},
			{ID: "s3", Name: "Chiku"}, // no guardian email on file
		},
	})
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g2",
		ClassID:   "c2",
		TeacherID: "t2",
		Students:  []directory.Student{{ID: "s4", Name: "Dalila"}},
	})

	dirSvc := directory.NewService(dirRepo)
	opts := attendance.GatewayOptions{
		Ledger:    attendance.NewService(inmemdb.NewAttendanceRepository(), dirSvc),
		Scope:     access.NewScope(dirSvc),
		Directory: dirSvc,
	}
	if withMail {
		opts.Mail = emailsvc.NewConsoleServiceMock()
	}
	return attendance.NewGateway(opts)
}

func TestGateway_roleScoping(t *testing.T) {
	gw := setupGateway(false)
	ctx := context.Background()
	statuses := map[string]attendance.Status{"s1": attendance.StatusPresent}

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name: "admin saves any class",
			call: func() error {
				_, err := gw.SaveAttendance(ctx, admin, "c1", day, statuses)
				return err
			},
		},
		{
			name: "teacher saves own class",
			call: func() error {
				_, err := gw.SaveAttendance(ctx, teacher1, "c1", day, statuses)
				return err
			},
		},
		{
			name: "teacher denied other class",
			call: func() error {
				_, err := gw.SaveAttendance(ctx, teacher2, "c1", day, statuses)
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "student never writes",
			call: func() error {
				_, err := gw.SaveAttendance(ctx, student1, "c1", day, statuses)
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "student denied class read, own class included",
			call: func() error {
				_, err := gw.GetClassAttendance(ctx, student1, "c1", day)
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "teacher reads own class",
			call: func() error {
				_, err := gw.GetClassAttendance(ctx, teacher1, "c1", day)
				return err
			},
		},
		{
			name: "teacher denied unknown class",
			call: func() error {
				_, err := gw.GetClassAttendance(ctx, teacher1, "nope", day)
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "student reads own history",
			call: func() error {
				_, err := gw.GetStudentAttendance(ctx, student1, "s1")
				return err
			},
		},
		{
			name: "student denied other student",
			call: func() error {
				_, err := gw.GetStudentAttendance(ctx, student4, "s1")
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "teacher reads student of own class",
			call: func() error {
				_, err := gw.GetStudentAttendance(ctx, teacher1, "s1")
				return err
			},
		},
		{
			name: "teacher denied student of other class",
			call: func() error {
				_, err := gw.GetStudentAttendance(ctx, teacher2, "s1")
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "teacher denied unknown student",
			call: func() error {
				_, err := gw.GetStudentAttendance(ctx, teacher1, "ghost")
				return err
			},
			wantErr: access.ErrDenied,
		},
		{
			name: "admin reads any summary",
			call: func() error {
				_, err := gw.GetStudentSummary(ctx, admin, "s1")
				return err
			},
		},
		{
			name: "student denied class summary",
			call: func() error {
				_, err := gw.GetClassSummary(ctx, student1, "c1", day)
				return err
			},
			wantErr: access.ErrDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGateway_SaveAttendance_result(t *testing.T) {
	gw := setupGateway(false)
	ctx := context.Background()

	result, err := gw.SaveAttendance(ctx, teacher1, "c1", day, map[string]attendance.Status{
		"s1": attendance.StatusPresent,
		"s2": attendance.StatusAbsent,
		"s3": attendance.StatusLate,
	})
	if err != nil {
		t.Fatalf("SaveAttendance() failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Errorf("got %d records, want 3", len(result.Records))
	}
	wantTotals := attendance.DailyTotals{Present: 1, Absent: 1, Late: 1}
	if result.Totals != wantTotals {
		t.Errorf("Totals = %+v, want %+v", result.Totals, wantTotals)
	}
	if result.Notice != "attendance recorded for 3 students" {
		t.Errorf("Notice = %q", result.Notice)
	}
	for _, rec := range result.Records {
		if rec.MarkedByID != teacher1.ID {
			t.Errorf("MarkedByID = %s, want %s", rec.MarkedByID, teacher1.ID)
		}
	}

	// clearing the day reports it as such
	result, err = gw.SaveAttendance(ctx, teacher1, "c1", day, map[string]attendance.Status{})
	if err != nil {
		t.Fatalf("SaveAttendance(clear) failed: %v", err)
	}
	if result.Notice != "attendance cleared for this date" {
		t.Errorf("Notice = %q", result.Notice)
	}
}

func TestGateway_GetStudentSummary(t *testing.T) {
	gw := setupGateway(false)
	ctx := context.Background()

	// 10 days: 7 present, 2 absent, 1 late -> 70% -> warning
	statuses := make([]attendance.Status, 0, 10)
	for i := 0; i < 7; i++ {
		statuses = append(statuses, attendance.StatusPresent)
	}
	statuses = append(statuses, attendance.StatusAbsent, attendance.StatusAbsent, attendance.StatusLate)
	for i, status := range statuses {
		if _, err := gw.SaveAttendance(ctx, teacher1, "c1", day.AddDate(0, 0, i), map[string]attendance.Status{"s1": status}); err != nil {
			t.Fatalf("SaveAttendance() failed: %v", err)
		}
	}

	summary, err := gw.GetStudentSummary(ctx, student1, "s1")
	if err != nil {
		t.Fatalf("GetStudentSummary() failed: %v", err)
	}
	want := attendance.StudentSummary{
		StudentID: "s1",
		Rate:      70,
		Standing:  attendance.StandingWarning,
		Totals:    attendance.DailyTotals{Present: 7, Absent: 2, Late: 1},
	}
	if !reflect.DeepEqual(summary, want) {
		t.Errorf("GetStudentSummary() = %+v, want %+v", summary, want)
	}

	// no records at all is a 0 rate, not an error
	empty, err := gw.GetStudentSummary(ctx, admin, "s2")
	if err != nil {
		t.Fatalf("GetStudentSummary() failed: %v", err)
	}
	if empty.Rate != 0 || empty.Standing != attendance.StandingCritical {
		t.Errorf("empty summary = %+v, want rate 0 / critical", empty)
	}
}

func TestGateway_absenceNotices(t *testing.T) {
	gw := setupGateway(true)
	ctx := context.Background()
	emailsvc.ClearSentMessages()

	_, err := gw.SaveAttendance(ctx, teacher1, "c1", day, map[string]attendance.Status{
		"s1": attendance.StatusPresent,
		"s2": attendance.StatusAbsent, // guardian on file -> notice
		"s3": attendance.StatusAbsent, // no guardian email -> skipped
	})
	if err != nil {
		t.Fatalf("SaveAttendance() failed: %v", err)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("got %d notices, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if msg.To[0].Address != "baraka.home@test.cd" {
		t.Errorf("notice sent to %s, want baraka.home@test.cd", msg.To[0].Address)
	}
	if msg.Subject != "Absence notice" {
		t.Errorf("Subject = %q", msg.Subject)
	}
}
