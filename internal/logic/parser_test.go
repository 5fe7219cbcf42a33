package logic

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

const nightRecord = "{'id': 3, 'name': 'Night', 'condition': '55', 'isDry': True, 'startTime': '22:00', 'endTime': '06:00', 'days': ['MONDAY','TUESDAY']}"

func TestParseRoutineFullRecord(t *testing.T) {
	r, issues := ParseRoutine(nightRecord)
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
	if r.ID != 3 {
		t.Errorf("ID: got %d, want 3", r.ID)
	}
	if r.Name != "Night" {
		t.Errorf("Name: got %q, want Night", r.Name)
	}
	if r.Condition != "55" {
		t.Errorf("Condition: got %q, want 55", r.Condition)
	}
	if !r.IsDry {
		t.Error("expected IsDry=true")
	}
	if r.StartTime != "22:00" {
		t.Errorf("StartTime: got %q, want 22:00", r.StartTime)
	}
	if r.EndTime != "06:00" {
		t.Errorf("EndTime: got %q, want 06:00", r.EndTime)
	}
	if !slices.Equal(r.Days, []string{"MONDAY", "TUESDAY"}) {
		t.Errorf("Days: got %v, want [MONDAY TUESDAY]", r.Days)
	}
	if !r.IsActive {
		t.Error("expected IsActive=true")
	}
	if r.Threshold() != 55 {
		t.Errorf("Threshold: got %v, want 55", r.Threshold())
	}
}

func TestParseRoutineFieldOrderIndependent(t *testing.T) {
	rec := "{'days': ['SUNDAY'], 'endTime': '10:30', 'isDry': False, 'name': 'Morning', 'startTime': '08:00', 'condition': '40.5', 'id': 12}"
	r, issues := ParseRoutine(rec)
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
	if r.ID != 12 || r.Name != "Morning" || r.IsDry || r.StartTime != "08:00" || r.EndTime != "10:30" {
		t.Errorf("unexpected routine: %+v", r)
	}
	if r.Threshold() != 40.5 {
		t.Errorf("Threshold: got %v, want 40.5", r.Threshold())
	}
}

func TestParseRoutineIsDryExactMatch(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"True", true},
		{"False", false},
		{"true", false},
		{"TRUE", false},
		{"1", false},
		{"'True'", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rec := fmt.Sprintf("{'id': 1, 'isDry': %s, 'name': 'x'}", tt.token)
			r, _ := ParseRoutine(rec)
			if r.IsDry != tt.want {
				t.Errorf("isDry %s: got %v, want %v", tt.token, r.IsDry, tt.want)
			}
		})
	}
}

func TestParseRoutineIsDryLastField(t *testing.T) {
	r, _ := ParseRoutine("{'id': 1, 'isDry': True}")
	if !r.IsDry {
		t.Error("expected IsDry=true when isDry is the last field")
	}
}

func TestParseRoutineMissingFieldsDegrade(t *testing.T) {
	r, issues := ParseRoutine("{'name': 'Only a name'}")
	if r.Name != "Only a name" {
		t.Errorf("Name: got %q", r.Name)
	}
	if r.ID != 0 || r.Condition != "" || r.IsDry || r.StartTime != "" || r.EndTime != "" || len(r.Days) != 0 {
		t.Errorf("expected zero values for missing fields, got %+v", r)
	}
	if !r.IsActive {
		t.Error("expected IsActive=true even for a degraded record")
	}

	missing := map[string]bool{}
	for _, is := range issues {
		if is.Problem == "missing" {
			missing[is.Field] = true
		}
	}
	for _, f := range []string{"id", "condition", "isDry", "startTime", "endTime", "days"} {
		if !missing[f] {
			t.Errorf("expected a missing issue for %s, got %v", f, issues)
		}
	}
}

func TestParseRoutineEachFieldIndependent(t *testing.T) {
	// Break one field at a time; every other field must survive.
	fields := map[string]string{
		"id":        "'id': ,",
		"name":      "'name': Night,",
		"condition": "'condition': 55,",
		"startTime": "'startTime': 22:00,",
		"endTime":   "'endTime': 06:00,",
		"days":      "'days': 'MONDAY',",
	}
	good := map[string]string{
		"id":        "'id': 3,",
		"name":      "'name': 'Night',",
		"condition": "'condition': '55',",
		"startTime": "'startTime': '22:00',",
		"endTime":   "'endTime': '06:00',",
		"days":      "'days': ['MONDAY'],",
	}
	order := []string{"id", "name", "condition", "startTime", "endTime", "days"}

	for _, broken := range order {
		t.Run(broken, func(t *testing.T) {
			var b strings.Builder
			b.WriteString("{")
			for _, f := range order {
				if f == broken {
					b.WriteString(fields[f])
				} else {
					b.WriteString(good[f])
				}
				b.WriteString(" ")
			}
			b.WriteString("'isDry': True}")

			r, issues := ParseRoutine(b.String())
			found := false
			for _, is := range issues {
				if is.Field == broken {
					found = true
				} else {
					t.Errorf("unexpected issue for %s: %v", is.Field, is)
				}
			}
			if !found {
				t.Errorf("expected an issue for %s, got %v", broken, issues)
			}
			if !r.IsDry {
				t.Error("isDry should survive a broken neighbour")
			}
			if broken != "name" && r.Name != "Night" {
				t.Errorf("Name: got %q, want Night", r.Name)
			}
			if broken != "days" && !slices.Equal(r.Days, []string{"MONDAY"}) {
				t.Errorf("Days: got %v, want [MONDAY]", r.Days)
			}
		})
	}
}

func TestParseRoutineQuoteInsideName(t *testing.T) {
	rec := "{'id': 4, 'name': 'O'Brien', 'condition': '60', 'isDry': True, 'startTime': '07:00', 'endTime': '09:00', 'days': ['MONDAY']}"
	r, issues := ParseRoutine(rec)
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
	if r.Name != "O'Brien" {
		t.Errorf("Name: got %q, want O'Brien", r.Name)
	}
	if r.Condition != "60" || !r.IsDry || r.StartTime != "07:00" || r.EndTime != "09:00" {
		t.Errorf("fields after the name were lost: %+v", r)
	}
	if !slices.Equal(r.Days, []string{"MONDAY"}) {
		t.Errorf("Days: got %v, want [MONDAY]", r.Days)
	}
}

func TestParseRoutineUnterminatedNameKeepsLaterFields(t *testing.T) {
	rec := "{'id': 5, 'name': 'Night, 'condition': '55', 'isDry': True, 'startTime': '22:00', 'endTime': '06:00', 'days': ['FRIDAY','SATURDAY']}"
	r, issues := ParseRoutine(rec)

	if r.Name != "" {
		t.Errorf("Name: got %q, want empty", r.Name)
	}
	for _, is := range issues {
		if is.Field != "name" {
			t.Errorf("unexpected issue for %s: %v", is.Field, is)
		}
	}
	if len(issues) != 1 {
		t.Errorf("expected exactly one name issue, got %v", issues)
	}
	if r.ID != 5 || r.Condition != "55" || !r.IsDry || r.StartTime != "22:00" || r.EndTime != "06:00" {
		t.Errorf("fields after the broken name were lost: %+v", r)
	}
	if !slices.Equal(r.Days, []string{"FRIDAY", "SATURDAY"}) {
		t.Errorf("Days: got %v, want [FRIDAY SATURDAY]", r.Days)
	}
}

func TestParseRoutineKeyTextInsideValue(t *testing.T) {
	r, _ := ParseRoutine("{'name': 'id', 'id': 9}")
	if r.Name != "id" || r.ID != 9 {
		t.Errorf("got name %q id %d, want id/9", r.Name, r.ID)
	}
}

func TestParseRoutineDaysCappedAtSeven(t *testing.T) {
	rec := "{'days': ['MONDAY', 'TUESDAY', 'WEDNESDAY', 'THURSDAY', 'FRIDAY', 'SATURDAY', 'SUNDAY', 'MONDAY', 'TUESDAY']}"
	r, issues := ParseRoutine(rec)
	if len(r.Days) != 7 {
		t.Fatalf("expected 7 days, got %d: %v", len(r.Days), r.Days)
	}
	if r.Days[6] != "SUNDAY" {
		t.Errorf("expected the first 7 days to be kept, got %v", r.Days)
	}
	found := false
	for _, is := range issues {
		if is.Field == "days" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a days issue, got %v", issues)
	}
}

func TestParseRoutineDaysSkipsEmptyEntries(t *testing.T) {
	r, _ := ParseRoutine("{'days': ['MONDAY', , 'FRIDAY', ]}")
	if !slices.Equal(r.Days, []string{"MONDAY", "FRIDAY"}) {
		t.Errorf("Days: got %v, want [MONDAY FRIDAY]", r.Days)
	}
}

func TestParseRoutineEmptyDayList(t *testing.T) {
	r, issues := ParseRoutine("{'days': []}")
	if len(r.Days) != 0 {
		t.Errorf("expected no days, got %v", r.Days)
	}
	for _, is := range issues {
		if is.Field == "days" {
			t.Errorf("unexpected days issue: %v", is)
		}
	}
}

func TestParseRoutineNonNumericCondition(t *testing.T) {
	r, issues := ParseRoutine("{'condition': 'high'}")
	if r.Condition != "high" {
		t.Errorf("Condition: got %q, want raw text kept", r.Condition)
	}
	if r.Threshold() != 0 {
		t.Errorf("Threshold: got %v, want 0", r.Threshold())
	}
	found := false
	for _, is := range issues {
		if is.Field == "condition" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a condition issue, got %v", issues)
	}
}

func TestParseRoutineInvalidTime(t *testing.T) {
	r, issues := ParseRoutine("{'startTime': '25:99', 'endTime': '06:00'}")
	if r.StartTime != "25:99" {
		t.Errorf("StartTime: got %q, want raw text kept", r.StartTime)
	}
	found := false
	for _, is := range issues {
		if is.Field == "startTime" && strings.Contains(is.Problem, "HH:MM") {
			found = true
		}
		if is.Field == "endTime" && is.Problem != "missing" {
			t.Errorf("unexpected endTime issue: %v", is)
		}
	}
	if !found {
		t.Errorf("expected a startTime issue, got %v", issues)
	}
}

func TestParseRoutineGarbage(t *testing.T) {
	for _, rec := range []string{"", "{", "}", "not a record", "{'id'", "{'name': 'unterminated}"} {
		r, issues := ParseRoutine(rec)
		if r.ID != 0 || r.Name != "" {
			t.Errorf("%q: expected zero routine, got %+v", rec, r)
		}
		if len(issues) == 0 {
			t.Errorf("%q: expected issues", rec)
		}
	}
}

func TestThresholdLeadingNumber(t *testing.T) {
	tests := []struct {
		cond string
		want float64
	}{
		{"55", 55},
		{" 55", 55},
		{"55.5", 55.5},
		{"55%", 55},
		{"-3", -3},
		{".5", 0.5},
		{"7.", 7},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := (Routine{Condition: tt.cond}).Threshold(); got != tt.want {
			t.Errorf("Threshold(%q): got %v, want %v", tt.cond, got, tt.want)
		}
	}
}
