/*
Package report assembles the salary slip as a plain data tree.

PURPOSE:
  The slip is built as ordered sections of labelled fields, tables and a
  calendar block. Nothing here knows about PDF, HTML or fonts; a renderer
  walks the tree and decides how each piece looks.

KEY CONCEPTS:
  - Document: Title plus sections in a fixed order
  - Section:  Fields, an optional table, an optional calendar, optional text
  - Field:    A label and an already-formatted value

DETERMINISM:
  Assemble iterates only over slices, never maps, so the same inputs always
  produce a deeply equal Document. Snapshot tests rely on this.

SEE ALSO:
  - assembler.go: Assemble and the per-section builders
*/
package report

// SectionID names a section. The order of Sections in a Document is the
// order of this list.
type SectionID string

const (
	SectionHeader               SectionID = "header"
	SectionSalaryBreakdown      SectionID = "salary-breakdown"
	SectionDeductionExplanation SectionID = "deduction-explanation"
	SectionAttendanceSummary    SectionID = "attendance-summary"
	SectionLeaveLedger          SectionID = "leave-ledger"
	SectionCalendar             SectionID = "calendar"
	SectionFooter               SectionID = "footer"
)

// SectionOrder is the fixed section order of every slip.
var SectionOrder = []SectionID{
	SectionHeader,
	SectionSalaryBreakdown,
	SectionDeductionExplanation,
	SectionAttendanceSummary,
	SectionLeaveLedger,
	SectionCalendar,
	SectionFooter,
}

type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section returns the section with the given id, or nil.
func (d *Document) Section(id SectionID) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

type Section struct {
	ID       SectionID      `json:"id"`
	Title    string         `json:"title"`
	Fields   []Field        `json:"fields,omitempty"`
	Table    *Table         `json:"table,omitempty"`
	Calendar *CalendarBlock `json:"calendar,omitempty"`
	Text     string         `json:"text,omitempty"`
}

// Field returns the value for label and whether it was present.
func (s *Section) Field(label string) (string, bool) {
	for _, f := range s.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Footer  []string   `json:"footer,omitempty"`
}

// CalendarBlock is the month grid with one entry per slot. Padding slots
// have Day == 0 and no other fields.
type CalendarBlock struct {
	Weekdays []string        `json:"weekdays"`
	Weeks    [][]CalendarDay `json:"weeks"`
}

type CalendarDay struct {
	Day      int    `json:"day,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	PunchIn  string `json:"punchIn,omitempty"`
	PunchOut string `json:"punchOut,omitempty"`
	Hours    string `json:"hours,omitempty"`
}
