package parser

import (
	"regexp"
	"strings"

	"gradeledger/internal/domain"
)

var (
	// tableHeader matches a column header such as "No  Registration No  Grade".
	tableHeader = regexp.MustCompile(`(?i)^\s*(?:s\.?\s*no|sr\.?\s*no|no|#)\.?\s+.*\b(?:reg|registration|index|student)`)

	// tableRow is <seq> <regno> <grade> [remark]. The grade must be followed by
	// whitespace or the end of the line, so "AB" is never read as "A" + "B".
	tableRow = regexp.MustCompile(`(?i)^\s*(\d{1,4})[.)]?\s+(` + regNoPattern + `)\s+(` +
		gradeAlternation() + `)(?:\s+(.*?))?\s*$`)

	// inlineRow finds the start of another row glued onto the end of a remark.
	inlineRow = regexp.MustCompile(`(?:^|\s)\d{1,4}[.)]?\s+` + regNoPattern)
)

var _ RecordStrategy = (*TableStrategy)(nil)

// TableStrategy reads rows with the strict sequence/regno/grade/remark grammar,
// starting below the table header.
type TableStrategy struct{}

// NewTableStrategy creates the table-structure pass.
func NewTableStrategy() *TableStrategy { return &TableStrategy{} }

func (s *TableStrategy) Name() string { return StrategyTable }

func (s *TableStrategy) Extract(text string) []domain.StudentResult {
	lines := strings.Split(text, "\n")
	start := tableStart(lines)
	if start < 0 {
		return nil
	}

	var out []domain.StudentResult
	for _, line := range lines[start:] {
		m := tableRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		remark := m[4]
		if loc := inlineRow.FindStringIndex(remark); loc != nil {
			remark = remark[:loc[0]]
		}
		out = append(out, domain.StudentResult{
			RegistrationID: CanonicalRegNo(m[2]),
			Grade:          NormalizeGrade(m[3]),
			Remark:         NormalizeRemark(remark),
		})
	}
	return out
}

// tableStart returns the first line after the header, or the first line holding
// a registration id when there is no header. -1 means no table was found.
func tableStart(lines []string) int {
	for i, line := range lines {
		if tableHeader.MatchString(line) && !regNoInText.MatchString(line) {
			return i + 1
		}
	}
	for i, line := range lines {
		if regNoInText.MatchString(line) {
			return i
		}
	}
	return -1
}
