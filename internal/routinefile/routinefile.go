// Package routinefile loads seed routines from a local YAML file. They are
// used until the first routine refresh from the service succeeds.
//
//	routines:
//	  - name: Night dry
//	    mode: dehumidify
//	    condition: "55"
//	    days: [MONDAY, TUESDAY]
//	    start: "22:00"
//	    end: "06:00"
//	  - record: "{'id': 7, 'name': 'Raw', ...}"
package routinefile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/humidistat/internal/logic"
)

// File is the top-level document.
type File struct {
	Routines []Entry `yaml:"routines"`
}

// Entry is either a structured routine or a raw service record.
type Entry struct {
	ID        int       `yaml:"id"`
	Name      string    `yaml:"name"`
	Mode      Mode      `yaml:"mode"`
	Condition string    `yaml:"condition"`
	Days      []string  `yaml:"days"`
	Start     ClockTime `yaml:"start"`
	End       ClockTime `yaml:"end"`
	Record    string    `yaml:"record"`
}

// Mode is the routine direction.
type Mode int

const (
	Dehumidify Mode = iota
	Humidify
)

func (m Mode) String() string {
	var result string
	switch m {
	case Dehumidify:
		result = "dehumidify"
	case Humidify:
		result = "humidify"
	}
	return result
}

func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	var err error
	switch strings.ToLower(node.Value) {
	case "dehumidify", "dry":
		*m = Dehumidify
	case "humidify", "wet":
		*m = Humidify
	default:
		err = fmt.Errorf("invalid mode: %s", node.Value)
	}
	return err
}

func (m Mode) MarshalYAML() (interface{}, error) {
	v := m.String()
	if v == "" {
		return "", fmt.Errorf("invalid mode: %d", m)
	}
	return v, nil
}

// ClockTime is an HH:MM time of day.
type ClockTime string

func (c *ClockTime) UnmarshalYAML(node *yaml.Node) error {
	ts, err := time.Parse("15:04", node.Value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", node.Value, err)
	}
	*c = ClockTime(ts.Format("15:04"))
	return nil
}

// Routine converts the entry. Raw records go through the service record
// parser and may report issues.
func (e Entry) Routine() (logic.Routine, []logic.ParseIssue) {
	if e.Record != "" {
		return logic.ParseRoutine(e.Record)
	}

	days := make([]string, 0, len(e.Days))
	for _, d := range e.Days {
		days = append(days, strings.ToUpper(strings.TrimSpace(d)))
	}
	var issues []logic.ParseIssue
	if len(days) > logic.MaxDays {
		days = days[:logic.MaxDays]
		issues = append(issues, logic.ParseIssue{Field: "days", Problem: "more than 7 days, extras dropped"})
	}

	return logic.Routine{
		ID:        e.ID,
		Name:      e.Name,
		Condition: e.Condition,
		Days:      days,
		StartTime: string(e.Start),
		EndTime:   string(e.End),
		IsDry:     e.Mode == Dehumidify,
		IsActive:  true,
	}, issues
}

// Parse decodes a YAML document into a routine collection.
func Parse(data []byte) (*logic.Routines, logic.BuildReport, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, logic.BuildReport{}, fmt.Errorf("parse routines: %w", err)
	}

	report := logic.BuildReport{Records: len(f.Routines)}
	rs := make([]logic.Routine, 0, len(f.Routines))
	for i, e := range f.Routines {
		r, issues := e.Routine()
		if len(issues) > 0 {
			report.Issues = append(report.Issues, logic.RecordIssues{Index: i, Issues: issues})
		}
		rs = append(rs, r)
	}

	c, dropped := logic.NewRoutines(rs)
	report.Dropped = dropped
	return c, report, nil
}

// Load reads and decodes the file at path.
func Load(path string) (*logic.Routines, logic.BuildReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, logic.BuildReport{}, fmt.Errorf("read routines: %w", err)
	}
	return Parse(data)
}
