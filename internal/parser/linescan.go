package parser

import (
	"regexp"
	"strings"

	"gradeledger/internal/domain"
)

var remarkWord = regexp.MustCompile(`^[A-Za-z][A-Za-z.'\-]*$`)

const maxScanRemarkWords = 3

var _ RecordStrategy = (*LineScanStrategy)(nil)

// LineScanStrategy finds every registration id on every line and reads the
// grade and remark that follow it. It recovers rows the table pass misses.
type LineScanStrategy struct{}

// NewLineScanStrategy creates the line-scan pass.
func NewLineScanStrategy() *LineScanStrategy { return &LineScanStrategy{} }

func (s *LineScanStrategy) Name() string { return StrategyLineScan }

func (s *LineScanStrategy) Extract(text string) []domain.StudentResult {
	var out []domain.StudentResult
	for _, line := range strings.Split(text, "\n") {
		matches := FindRegNos(line)
		for i, loc := range matches {
			end := len(line)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			grade, remark, ok := scanFollowing(line[loc[1]:end])
			if !ok {
				continue
			}
			out = append(out, domain.StudentResult{
				RegistrationID: CanonicalRegNo(line[loc[0]:loc[1]]),
				Grade:          grade,
				Remark:         remark,
			})
		}
	}
	return out
}

// scanFollowing reads a grade token and up to three remark words from the text
// after a registration id.
func scanFollowing(s string) (grade, remark string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}

	rest := ""
	if tok, tail, found := matchGradePrefix(s); found {
		grade, rest = tok, tail
	} else {
		fields := strings.Fields(s)
		if !unknownGrade.MatchString(fields[0]) {
			return "", "", false
		}
		grade = NormalizeGrade(fields[0])
		rest = s[len(fields[0]):]
	}

	var words []string
	for _, w := range strings.Fields(rest) {
		if len(words) == maxScanRemarkWords || !remarkWord.MatchString(w) {
			break
		}
		words = append(words, w)
	}
	return grade, NormalizeRemark(strings.Join(words, " ")), true
}
