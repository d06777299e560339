package parser

import (
	"regexp"
	"strings"
	"unicode"

	"gradeledger/internal/domain"
)

// gradeTokens is the closed grade vocabulary ordered for matching: every
// token comes before any shorter token that is its prefix, so AB is tried
// before A and NE before a bare N never gets a chance.
var gradeTokens = []string{
	domain.GradeAbsent,
	domain.GradeNotEligible,
	domain.GradeNoCredit,
	domain.GradeWithdrawnPass,
	domain.GradeWithdrawnFail,
	domain.GradeNoPass,
	domain.GradeAPlus,
	domain.GradeAMinus,
	domain.GradeBPlus,
	domain.GradeBMinus,
	domain.GradeCPlus,
	domain.GradeCMinus,
	domain.GradeDPlus,
	domain.GradeA,
	domain.GradeB,
	domain.GradeC,
	domain.GradeD,
	domain.GradeF,
	domain.GradeIncomplete,
	domain.GradeWithdrawn,
	domain.GradePass,
}

// GradeTokens returns a copy of the ordered grade vocabulary.
func GradeTokens() []string {
	out := make([]string, len(gradeTokens))
	copy(out, gradeTokens)
	return out
}

// gradeAlternation renders the vocabulary as a regexp alternation in match order.
func gradeAlternation() string {
	quoted := make([]string, len(gradeTokens))
	for i, tok := range gradeTokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	return strings.Join(quoted, "|")
}

// unknownGrade accepts short grade-like tokens outside the vocabulary, e.g. "E" or "AB+".
var unknownGrade = regexp.MustCompile(`^[A-Za-z][A-Za-z+\-]{0,2}$`)

// NormalizeGrade uppercases a grade token and removes inner whitespace.
// Tokens outside the vocabulary are returned as-is otherwise.
func NormalizeGrade(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, token)
}

// IsKnownGrade reports whether a normalized grade is in the vocabulary.
func IsKnownGrade(grade string) bool {
	for _, tok := range gradeTokens {
		if tok == grade {
			return true
		}
	}
	return false
}

// matchGradePrefix matches the longest vocabulary token at the start of s that
// is followed by whitespace or the end of s.
func matchGradePrefix(s string) (grade, rest string, ok bool) {
	for _, tok := range gradeTokens {
		if len(s) < len(tok) || !strings.EqualFold(s[:len(tok)], tok) {
			continue
		}
		tail := s[len(tok):]
		if tail == "" || tail[0] == ' ' || tail[0] == '\t' {
			return tok, tail, true
		}
	}
	return "", s, false
}

var remarkVocabulary = map[string]string{
	"cafail":        "CA Fail",
	"cafailed":      "CA Fail",
	"repeat":        "Repeat",
	"repeated":      "Repeat",
	"absent":        "Absent",
	"medical":       "Medical",
	"withdrawn":     "Withdrawn",
	"withdrew":      "Withdrawn",
	"incomplete":    "Incomplete",
	"noteligible":   "Not Eligible",
	"examoffence":   "Exam Offence",
	"examoffense":   "Exam Offence",
	"pending":       "Pending",
	"resultpending": "Pending",
}

const maxRemarkWords = 5

// NormalizeRemark maps case and spacing variants of known annotations to their
// canonical phrase. Other text is trimmed and capped at five words.
func NormalizeRemark(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	key := strings.ToLower(strings.Join(words, ""))
	key = strings.TrimRight(key, ".,;:")
	if canonical, ok := remarkVocabulary[key]; ok {
		return canonical
	}
	if len(words) > maxRemarkWords {
		words = words[:maxRemarkWords]
	}
	return strings.Join(words, " ")
}
