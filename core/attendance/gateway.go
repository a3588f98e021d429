package attendance

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/directory"
)

type (
	// GatewayOptions configures a Gateway. Mail is optional; when set,
	// guardians of students marked absent are notified after a save commits.
	GatewayOptions struct {
		Ledger    *Service
		Scope     access.Scope
		Directory directory.Service
		Standing  StandingPolicy // zero value falls back to DefaultStandingPolicy
		Mail      core.EmailService
		Logger    core.Logger
	}

	// Gateway is the single entry point external callers interact with.
	// It enforces AccessScope before delegating to the ledger or the
	// aggregation functions; no other path into attendance data exists.
	Gateway struct {
		ledger   *Service
		scope    access.Scope
		dir      directory.Service
		standing StandingPolicy
		mail     core.EmailService
		logger   core.Logger
	}

	// SaveResult is the success payload of SaveAttendance. Notice is a
	// human-readable confirmation the caller may surface; whether and how to
	// show it is the caller's decision, not this package's.
	SaveResult struct {
		Records []Record    `json:"records"`
		Totals  DailyTotals `json:"totals"`
		Notice  string      `json:"notice"`
	}

	// StudentSummary is the derived view backing the student standing widget.
	StudentSummary struct {
		StudentID string      `json:"student_id"`
		Rate      int         `json:"rate"`
		Standing  Standing    `json:"standing"`
		Totals    DailyTotals `json:"totals"`
	}
)

func NewGateway(opts GatewayOptions) *Gateway {
	standing := opts.Standing
	if standing == (StandingPolicy{}) {
		standing = DefaultStandingPolicy
	}
	return &Gateway{
		ledger:   opts.Ledger,
		scope:    opts.Scope,
		dir:      opts.Directory,
		standing: standing,
		mail:     opts.Mail,
		logger:   opts.Logger,
	}
}

// GetClassAttendance returns the recorded statuses for one class and date.
func (g *Gateway) GetClassAttendance(ctx context.Context, ident access.Identity, classID string, date time.Time) (map[string]Status, error) {
	if err := g.scope.CanReadClass(ctx, ident, classID); err != nil {
		return nil, err
	}
	return g.ledger.ReadByClassDate(ctx, classID, date)
}

// GetStudentAttendance returns one student's full history, most recent first.
func (g *Gateway) GetStudentAttendance(ctx context.Context, ident access.Identity, studentID string) ([]Record, error) {
	if err := g.scope.CanReadStudent(ctx, ident, studentID); err != nil {
		return nil, err
	}
	return g.ledger.ReadByStudent(ctx, studentID, core.DBOrdering{Field: "date", Ascending: false})
}

// GetStudentSummary computes the student's attendance rate, standing and
// status totals across their whole history.
func (g *Gateway) GetStudentSummary(ctx context.Context, ident access.Identity, studentID string) (StudentSummary, error) {
	if err := g.scope.CanReadStudent(ctx, ident, studentID); err != nil {
		return StudentSummary{}, err
	}
	records, err := g.ledger.ReadByStudent(ctx, studentID)
	if err != nil {
		return StudentSummary{}, err
	}
	statuses := Statuses(records)
	rate := Rate(statuses)
	return StudentSummary{
		StudentID: studentID,
		Rate:      rate,
		Standing:  g.standing.Classify(rate),
		Totals:    Totals(statuses),
	}, nil
}

// GetClassSummary tallies one class's statuses for one date.
func (g *Gateway) GetClassSummary(ctx context.Context, ident access.Identity, classID string, date time.Time) (DailyTotals, error) {
	if err := g.scope.CanReadClass(ctx, ident, classID); err != nil {
		return DailyTotals{}, err
	}
	statusByStudent, err := g.ledger.ReadByClassDate(ctx, classID, date)
	if err != nil {
		return DailyTotals{}, err
	}
	statuses := make([]Status, 0, len(statusByStudent))
	for _, status := range statusByStudent {
		statuses = append(statuses, status)
	}
	return Totals(statuses), nil
}

// SaveAttendance replaces the record set for (classID, date) on behalf of the
// caller; the records are stamped with the caller's own id. It never partially
// applies a write: either the ledger rejected the save whole, or the returned
// result reflects the full committed set.
func (g *Gateway) SaveAttendance(ctx context.Context, ident access.Identity, classID string, date time.Time, statusByStudent map[string]Status) (SaveResult, error) {
	if err := g.scope.CanWriteClass(ctx, ident, classID); err != nil {
		return SaveResult{}, err
	}

	records, err := g.ledger.Save(ctx, classID, date, statusByStudent, ident.ID)
	if err != nil {
		return SaveResult{}, err
	}

	if g.mail != nil {
		g.sendAbsenceNotices(ctx, records)
	}

	notice := fmt.Sprintf("attendance recorded for %d students", len(records))
	if len(records) == 0 {
		notice = "attendance cleared for this date"
	}
	return SaveResult{
		Records: records,
		Totals:  Totals(Statuses(records)),
		Notice:  notice,
	}, nil
}

// sendAbsenceNotices emails the guardian of every student marked absent.
// Notices happen strictly after the save commits and never affect its outcome;
// a failed guardian lookup is logged and skipped.
func (g *Gateway) sendAbsenceNotices(ctx context.Context, records []Record) {
	messages := make([]*core.EmailMessage, 0)
	for _, rec := range records {
		if rec.Status != StatusAbsent {
			continue
		}
		std, err := g.dir.GetStudent(ctx, rec.StudentID)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn(fmt.Sprintf("absence notice: looking up student %s: %v", rec.StudentID, err))
			}
			continue
		}
		if std.GuardianEmail == "" {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:      []mail.Address{{Name: std.Name, Address: std.GuardianEmail}},
			Subject: "Absence notice",
			Body: fmt.Sprintf(
				"%s was marked absent on %s. Please contact the school if this is unexpected.",
				std.Name, rec.Date.Format(DateLayout),
			),
		})
	}
	if len(messages) > 0 {
		g.mail.SendMessages(messages...)
	}
}
