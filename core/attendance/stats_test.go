package attendance

import "testing"

func TestRate(t *testing.T) {
	repeat := func(status Status, n int) []Status {
		statuses := make([]Status, n)
		for i := range statuses {
			statuses[i] = status
		}
		return statuses
	}

	tests := []struct {
		name     string
		statuses []Status
		want     int
	}{
		{name: "no records", statuses: nil, want: 0},
		{name: "all present", statuses: repeat(StatusPresent, 5), want: 100},
		{name: "none present", statuses: repeat(StatusAbsent, 4), want: 0},
		{name: "7 of 10 present", statuses: append(repeat(StatusPresent, 7), repeat(StatusAbsent, 3)...), want: 70},
		{name: "rounds half up", statuses: append(repeat(StatusPresent, 1), StatusAbsent), want: 50},
		{name: "1 of 3 rounds down", statuses: append(repeat(StatusPresent, 1), repeat(StatusLate, 2)...), want: 33},
		{name: "2 of 3 rounds up", statuses: append(repeat(StatusPresent, 2), StatusExcused), want: 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rate(tt.statuses); got != tt.want {
				t.Errorf("Rate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStandingPolicy_Classify(t *testing.T) {
	tests := []struct {
		rate int
		want Standing
	}{
		{rate: 100, want: StandingGood},
		{rate: 80, want: StandingGood},
		{rate: 79, want: StandingWarning},
		{rate: 60, want: StandingWarning},
		{rate: 59, want: StandingCritical},
		{rate: 0, want: StandingCritical},
	}
	for _, tt := range tests {
		if got := DefaultStandingPolicy.Classify(tt.rate); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestTotals(t *testing.T) {
	statuses := []Status{
		StatusPresent, StatusPresent, StatusPresent,
		StatusAbsent, StatusAbsent,
		StatusLate,
		StatusExcused,
	}
	want := DailyTotals{Present: 3, Absent: 2, Late: 1, Excused: 1}
	if got := Totals(statuses); got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}

	if got := Totals(nil); got != (DailyTotals{}) {
		t.Errorf("Totals(nil) = %+v, want zero totals", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "valid", in: "2021-09-01"},
		{name: "empty", in: "", wantErr: ErrInvalidDate},
		{name: "not a date", in: "yesterday", wantErr: ErrInvalidDate},
		{name: "wrong layout", in: "01/09/2021", wantErr: ErrInvalidDate},
		{name: "impossible day", in: "2021-02-30", wantErr: ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDate(tt.in); err != tt.wantErr {
				t.Errorf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
