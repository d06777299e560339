package parser

import (
	"regexp"
	"strconv"
	"strings"

	"gradeledger/internal/domain"
)

// fieldMatcher sets one metadata field from the first match its apply accepts.
type fieldMatcher struct {
	field    string
	patterns []*regexp.Regexp
	apply    func(md *domain.SheetMetadata, groups []string) bool
}

var metadataMatchers = []fieldMatcher{
	{
		field: "institution",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)^\s*([^\n]*\b(?:University|Institute|College)\b[^\n]*?)\s*$`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.Institution = g[1]
			return true
		},
	},
	{
		field: "faculty",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)\b(Faculty\s+of\s+[A-Za-z&,' ]+?)\s*(?:$|[;|(]|\bDepartment\b)`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.Faculty = strings.TrimRight(g[1], ", ")
			return true
		},
	},
	{
		field: "department",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)\b(Department\s+of\s+[A-Za-z&,' ]+?)\s*(?:$|[;|(]|\bFaculty\b)`),
			regexp.MustCompile(`(?im)^\s*Dept\.?\s*[:\-]\s*([A-Za-z&' ]+?)\s*$`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.Department = strings.TrimRight(g[1], ", ")
			return true
		},
	},
	{
		field: "degree_program",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)\b((?:Bachelor|Master|Doctor)\s+of\s+[A-Za-z&()' ]+?)\s*(?:$|[,;|])`),
			regexp.MustCompile(`(?im)\bDegree(?:\s+Programme|\s+Program)?\s*[:\-]\s*([^\n]+?)\s*$`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.DegreeProgram = g[1]
			return true
		},
	},
	{
		field: "course_code",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:Course|Subject|Module|Unit)\s*(?:Code|No\.?)\s*[:\-]?\s*([A-Z]{2,5}\s?\d{3,4}[A-Z]?)\b`),
			regexp.MustCompile(`\b([A-Z]{2,5}\s?\d{3,4}[A-Z]?)\b`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			code := strings.ToUpper(strings.Join(strings.Fields(g[1]), ""))
			if notCourseCode[strings.TrimRight(code, "0123456789")] {
				return false
			}
			md.CourseCode = code
			return true
		},
	},
	{
		field: "subject_name",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)\b(?:Course|Subject|Module)\s*(?:Title|Name)\s*[:\-]\s*([^\n]+?)\s*(?:$|\b(?:Credits?|Course\s+Code|Semester|Level|Year)\b)`),
			regexp.MustCompile(`(?im)^\s*Subject\s*[:\-]\s*([^\n]+?)\s*(?:$|\b(?:Credits?|Semester|Level|Year)\b)`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.SubjectName = strings.TrimRight(g[1], ",;| ")
			return md.SubjectName != ""
		},
	},
	{
		field: "credits",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:No\.?\s+of\s+)?Credits?(?:\s+(?:Value|Hours))?\s*[:\-=]?\s*(\d{1,2}(?:\.\d+)?)\b`),
			regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*Credits?\b`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			c, err := strconv.ParseFloat(g[1], 64)
			if err != nil || c <= 0 || c > 30 {
				return false
			}
			md.Credits = c
			return true
		},
	},
	{
		field: "semester_label",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(1st|2nd|3rd|4th|First|Second|Third|Fourth)\s+Semester\b`),
			regexp.MustCompile(`(?i)\bSemester\s*[:\-]?\s*(\d|IV|I{1,3})\b`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.SemesterLabel = "Semester " + ordinalNumber(g[1])
			return true
		},
	},
	{
		field: "academic_year",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(20\d{2}\s*[/\-]\s*(?:20\d{2}|\d{2}))\b`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.AcademicYear = strings.Join(strings.Fields(g[1]), "")
			return true
		},
	},
	{
		field: "level_label",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bLevel\s*[:\-]?\s*(\d|IV|I{1,3})\b`),
			regexp.MustCompile(`(?i)\bYear\s*[:\-]?\s*(\d|IV|I{1,3})\b`),
			regexp.MustCompile(`(?i)\b(1st|2nd|3rd|4th|First|Second|Third|Fourth)\s+Year\b`),
		},
		apply: func(md *domain.SheetMetadata, g []string) bool {
			md.LevelLabel = "Level " + ordinalNumber(g[1])
			return true
		},
	},
}

// notCourseCode lists letter prefixes the bare course-code pattern must not accept.
var notCourseCode = map[string]bool{
	"YEAR": true, "LEVEL": true, "SEM": true, "NO": true, "PAGE": true,
}

var ordinals = map[string]string{
	"1st": "1", "first": "1", "i": "1",
	"2nd": "2", "second": "2", "ii": "2",
	"3rd": "3", "third": "3", "iii": "3",
	"4th": "4", "fourth": "4", "iv": "4",
}

func ordinalNumber(s string) string {
	if n, ok := ordinals[strings.ToLower(s)]; ok {
		return n
	}
	return s
}

// ExtractMetadata runs every field matcher over text. Fields are independent;
// a field whose patterns all miss keeps its zero value.
func ExtractMetadata(text string) domain.SheetMetadata {
	var md domain.SheetMetadata
	for _, m := range metadataMatchers {
		applyFirst(&md, m, text)
	}
	return md
}

// applyFirst applies the earliest match, in pattern order, that m accepts.
func applyFirst(md *domain.SheetMetadata, m fieldMatcher, text string) {
	for _, re := range m.patterns {
		for _, groups := range re.FindAllStringSubmatch(text, -1) {
			if m.apply(md, groups) {
				return
			}
		}
	}
}
