package logic

// MaxRoutines is the capacity of a routine collection. Records beyond it
// are dropped.
const MaxRoutines = 100

// Routines is an ordered, immutable routine collection. A refresh builds a
// new collection and swaps it in whole.
type Routines struct {
	items []Routine
}

// NewRoutines copies up to MaxRoutines routines into a collection and
// returns how many were dropped.
func NewRoutines(rs []Routine) (*Routines, int) {
	dropped := 0
	if len(rs) > MaxRoutines {
		dropped = len(rs) - MaxRoutines
		rs = rs[:MaxRoutines]
	}
	items := make([]Routine, len(rs))
	copy(items, rs)
	return &Routines{items: items}, dropped
}

// All returns the routines in order. Callers must not modify the slice.
func (c *Routines) All() []Routine {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of routines.
func (c *Routines) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// RecordIssues groups the parse issues of one record.
type RecordIssues struct {
	Index  int // position of the record in the batch
	Issues []ParseIssue
}

// BuildReport summarises one refresh batch.
type BuildReport struct {
	Records int            // records received
	Skipped int            // empty records
	Dropped int            // records beyond MaxRoutines
	Issues  []RecordIssues // records that parsed with issues
}

// BuildRoutines parses a batch of raw routine records into a new collection.
// Empty records are skipped, malformed fields degrade to zero values and
// records past MaxRoutines are dropped.
func BuildRoutines(records []string) (*Routines, BuildReport) {
	report := BuildReport{Records: len(records)}
	parsed := make([]Routine, 0, min(len(records), MaxRoutines))
	for i, rec := range records {
		if rec == "" {
			report.Skipped++
			continue
		}
		if len(parsed) == MaxRoutines {
			report.Dropped++
			continue
		}
		r, issues := ParseRoutine(rec)
		if len(issues) > 0 {
			report.Issues = append(report.Issues, RecordIssues{Index: i, Issues: issues})
		}
		parsed = append(parsed, r)
	}
	c, _ := NewRoutines(parsed)
	return c, report
}
