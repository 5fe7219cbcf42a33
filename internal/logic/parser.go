package logic

import (
	"strconv"
	"strings"
)

// Routine is one scheduled humidity routine.
type Routine struct {
	ID        int
	Name      string
	Condition string // raw humidity threshold text, see Threshold
	Days      []string
	StartTime string // HH:MM
	EndTime   string // HH:MM
	IsDry     bool   // true = dehumidify, false = humidify
	IsActive  bool
}

// Threshold returns the numeric humidity condition. Text without a leading
// number yields 0.
func (r Routine) Threshold() float64 {
	return leadingFloat(r.Condition)
}

// MaxDays is the number of weekday tokens a routine can carry.
const MaxDays = 7

// ParseIssue describes one field that could not be decoded. The field
// still carries its zero value in the returned Routine.
type ParseIssue struct {
	Field   string
	Problem string
}

func (p ParseIssue) String() string {
	return p.Field + ": " + p.Problem
}

// Record keys as sent by the routine service.
const (
	keyID        = "id"
	keyName      = "name"
	keyCondition = "condition"
	keyIsDry     = "isDry"
	keyStartTime = "startTime"
	keyEndTime   = "endTime"
	keyDays      = "days"
)

// ParseRoutine decodes one routine record of the form
//
//	{'id': 3, 'name': 'Night', 'condition': '55', 'isDry': True,
//	 'startTime': '22:00', 'endTime': '06:00', 'days': ['MONDAY','TUESDAY']}
//
// Decoding never fails as a whole: every field is looked up on its own and
// a missing or malformed field degrades to its zero value with an issue
// reported for it.
func ParseRoutine(record string) (Routine, []ParseIssue) {
	fields := scanRecord(record)
	var issues []ParseIssue

	r := Routine{IsActive: true}

	if v, ok := lookup(fields, keyID, &issues); ok {
		if n, ok := leadingInt(v.text); ok {
			r.ID = n
		} else {
			issues = append(issues, ParseIssue{Field: keyID, Problem: "not a number: " + strconv.Quote(v.text)})
		}
	}

	r.Name = stringField(fields, keyName, &issues)
	r.Condition = stringField(fields, keyCondition, &issues)
	if v, ok := fields[keyCondition]; ok && v.kind == valueQuoted {
		if _, numeric := leadingNumber(r.Condition); !numeric {
			issues = append(issues, ParseIssue{Field: keyCondition, Problem: "not a number, using 0"})
		}
	}

	if v, ok := lookup(fields, keyIsDry, &issues); ok {
		r.IsDry = v.kind == valueBare && v.text == "True"
	}

	r.StartTime = stringField(fields, keyStartTime, &issues)
	r.EndTime = stringField(fields, keyEndTime, &issues)
	for _, f := range []struct{ key, text string }{{keyStartTime, r.StartTime}, {keyEndTime, r.EndTime}} {
		if v, ok := fields[f.key]; ok && v.kind == valueQuoted && !ValidClock(f.text) {
			issues = append(issues, ParseIssue{Field: f.key, Problem: "not HH:MM: " + strconv.Quote(f.text)})
		}
	}

	if v, ok := lookup(fields, keyDays, &issues); ok {
		if v.kind != valueList {
			issues = append(issues, ParseIssue{Field: keyDays, Problem: "not a list"})
		} else {
			var dropped int
			r.Days, dropped = splitDays(v.text)
			if dropped > 0 {
				issues = append(issues, ParseIssue{Field: keyDays, Problem: "more than 7 days, extras dropped"})
			}
		}
	}

	return r, issues
}

// lookup returns the value for key, reporting an issue when it is absent or
// could not be delimited.
func lookup(fields map[string]value, key string, issues *[]ParseIssue) (value, bool) {
	v, ok := fields[key]
	switch {
	case !ok:
		*issues = append(*issues, ParseIssue{Field: key, Problem: "missing"})
		return value{}, false
	case v.kind == valueMalformed:
		*issues = append(*issues, ParseIssue{Field: key, Problem: "unterminated value"})
		return value{}, false
	}
	return v, true
}

func stringField(fields map[string]value, key string, issues *[]ParseIssue) string {
	v, ok := lookup(fields, key, issues)
	if !ok {
		return ""
	}
	if v.kind != valueQuoted {
		*issues = append(*issues, ParseIssue{Field: key, Problem: "not a quoted string"})
		return ""
	}
	return v.text
}

// splitDays strips quotes and spaces from the inside of a day list, splits
// on commas and keeps the first MaxDays non-empty entries.
func splitDays(list string) ([]string, int) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', ' ', '\t':
			return -1
		}
		return r
	}, list)

	var days []string
	dropped := 0
	for _, d := range strings.Split(cleaned, ",") {
		if d == "" {
			continue
		}
		if len(days) == MaxDays {
			dropped++
			continue
		}
		days = append(days, d)
	}
	return days, dropped
}

type valueKind int

const (
	valueBare valueKind = iota
	valueQuoted
	valueList
	valueMalformed
)

type value struct {
	kind valueKind
	text string
}

var recordKeys = []string{keyID, keyName, keyCondition, keyIsDry, keyStartTime, keyEndTime, keyDays}

// scanRecord looks up every known key by its own 'key': marker, so a broken
// value never shifts the position other fields are read from.
func scanRecord(s string) map[string]value {
	out := make(map[string]value, len(recordKeys))
	for _, key := range recordKeys {
		if at, ok := findKey(s, key); ok {
			out[key] = readValue(s[at:])
		}
	}
	return out
}

// findKey returns the offset just past the colon of the first 'key': or
// "key": marker that opens a pair, i.e. one preceded by '{', ',' or nothing.
func findKey(s, key string) (int, bool) {
	for i := 0; i+len(key)+2 <= len(s); i++ {
		q := s[i]
		if q != '\'' && q != '"' {
			continue
		}
		end := i + 1 + len(key)
		if s[i+1:end] != key || s[end] != q {
			continue
		}
		if prev := strings.TrimRight(s[:i], spaces); prev != "" && !strings.HasSuffix(prev, "{") && !strings.HasSuffix(prev, ",") {
			continue
		}
		rest := strings.TrimLeft(s[end+1:], spaces)
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		return len(s) - len(rest) + 1, true
	}
	return 0, false
}

const spaces = " \t\r\n"

// readValue decodes the value at the start of s. A quoted value that never
// closes, or that swallows another key marker, is malformed.
func readValue(s string) value {
	s = strings.TrimLeft(s, spaces)
	if s == "" {
		return value{kind: valueBare}
	}
	switch s[0] {
	case '\'', '"':
		text, ok := quotedValue(s)
		if !ok || hasKeyMarker(text) {
			return value{kind: valueMalformed}
		}
		return value{kind: valueQuoted, text: text}
	case '[':
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return value{kind: valueMalformed}
		}
		return value{kind: valueList, text: s[1:end]}
	default:
		end := strings.IndexAny(s, ",}")
		if end < 0 {
			end = len(s)
		}
		return value{kind: valueBare, text: strings.TrimSpace(s[:end])}
	}
}

// quotedValue returns the text between the opening quote and the first
// matching quote that is followed by ',', '}' or the end of the record.
// Quotes inside the text, as in 'O'Brien', are kept.
func quotedValue(s string) (string, bool) {
	q := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		rest := strings.TrimLeft(s[i+1:], spaces)
		if rest == "" || rest[0] == ',' || rest[0] == '}' {
			return s[1:i], true
		}
	}
	return "", false
}

func hasKeyMarker(text string) bool {
	for _, key := range recordKeys {
		if _, ok := findKey(text, key); ok {
			return true
		}
	}
	return false
}

// leadingNumber returns the longest prefix of s (after leading spaces) that
// looks like a decimal number.
func leadingNumber(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if frac > 0 || digits > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return "", false
	}
	return s[:i], true
}

func leadingFloat(s string) float64 {
	num, ok := leadingNumber(s)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(num, "."), 64)
	if err != nil {
		return 0
	}
	return f
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
