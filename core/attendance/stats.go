package attendance

import "math"

// Standing classifies a student's attendance rate.
type Standing string

const (
	StandingGood     Standing = "good"
	StandingWarning  Standing = "warning"
	StandingCritical Standing = "critical"
)

// StandingPolicy holds the rate cutoffs (integer percents) used to classify a
// standing. The defaults are school policy, not derived values; deployments
// with different cutoffs override them through configuration.
type StandingPolicy struct {
	Good    int // rate >= Good            -> good
	Warning int // Warning <= rate < Good  -> warning, below -> critical
}

var DefaultStandingPolicy = StandingPolicy{Good: 80, Warning: 60}

func (p StandingPolicy) Classify(rate int) Standing {
	switch {
	case rate >= p.Good:
		return StandingGood
	case rate >= p.Warning:
		return StandingWarning
	default:
		return StandingCritical
	}
}

// Statuses projects records onto their statuses for the tally functions.
func Statuses(records []Record) []Status {
	statuses := make([]Status, 0, len(records))
	for _, rec := range records {
		statuses = append(statuses, rec.Status)
	}
	return statuses
}

// Rate computes round(100 * presentCount / totalCount) over statuses.
// No statuses means a rate of 0; that is a defined edge case, not an error.
func Rate(statuses []Status) int {
	if len(statuses) == 0 {
		return 0
	}
	var present int
	for _, status := range statuses {
		if status == StatusPresent {
			present++
		}
	}
	return int(math.Round(100 * float64(present) / float64(len(statuses))))
}

// DailyTotals is a tally by status, used for dashboard summaries.
type DailyTotals struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

func Totals(statuses []Status) DailyTotals {
	var t DailyTotals
	for _, status := range statuses {
		switch status {
		case StatusPresent:
			t.Present++
		case StatusAbsent:
			t.Absent++
		case StatusLate:
			t.Late++
		case StatusExcused:
			t.Excused++
		}
	}
	return t
}
