package gpa

import (
	"gradeledger/internal/domain"
)

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
	TrendNone   = "none"
)

// Summary is the GPA of a set of grade assignments.
type Summary struct {
	GPA               float64 `json:"gpa"`
	TotalCreditHours  float64 `json:"total_credit_hours"`
	EarnedCreditHours float64 `json:"earned_credit_hours"`
	QualityPoints     float64 `json:"quality_points"`
	SubjectCount      int     `json:"subject_count"`
	Trend             string  `json:"trend"`
	TrendMagnitude    float64 `json:"trend_magnitude"`
}

// Report holds the overall summary and the per-level and per-semester breakdowns.
// LevelOrder and SemesterOrder list the group keys in first-appearance order.
type Report struct {
	Overall       Summary            `json:"overall"`
	ByLevel       map[string]Summary `json:"by_level"`
	BySemester    map[string]Summary `json:"by_semester"`
	LevelOrder    []string           `json:"level_order"`
	SemesterOrder []string           `json:"semester_order"`
}

// Aggregate sums the assignments that carry a grade point and positive credits.
// Everything else is excluded from every total. The trend is always none here;
// see Compute for trends.
func Aggregate(assignments []domain.GradeAssignment) Summary {
	var s Summary
	subjects := make(map[string]struct{})
	for _, a := range assignments {
		p, ok := GradePoint(a.Grade)
		if !ok || a.CreditHours <= 0 {
			continue
		}
		s.QualityPoints += p * a.CreditHours
		s.TotalCreditHours += a.CreditHours
		if p > 0 {
			s.EarnedCreditHours += a.CreditHours
		}
		subjects[a.SubjectID] = struct{}{}
	}
	s.SubjectCount = len(subjects)
	if s.TotalCreditHours > 0 {
		s.GPA = round2(s.QualityPoints / s.TotalCreditHours)
	}
	s.QualityPoints = round2(s.QualityPoints)
	s.Trend = TrendNone
	return s
}

// Compute aggregates assignments overall, per level and per semester. The input
// order is taken as chronological. The overall trend compares the two most
// recent semesters with a non-zero GPA; each level's trend compares the two most
// recent such semesters inside that level.
func Compute(assignments []domain.GradeAssignment) Report {
	levelOrder, byLevelRows := group(assignments, func(a domain.GradeAssignment) string { return a.LevelLabel })
	semOrder, bySemRows := group(assignments, func(a domain.GradeAssignment) string { return a.SemesterLabel })

	report := Report{
		Overall:       Aggregate(assignments),
		ByLevel:       make(map[string]Summary, len(levelOrder)),
		BySemester:    make(map[string]Summary, len(semOrder)),
		LevelOrder:    levelOrder,
		SemesterOrder: semOrder,
	}

	semGPAs := make([]float64, 0, len(semOrder))
	for _, sem := range semOrder {
		s := Aggregate(bySemRows[sem])
		report.BySemester[sem] = s
		semGPAs = append(semGPAs, s.GPA)
	}
	report.Overall.Trend, report.Overall.TrendMagnitude = trend(semGPAs)

	for _, level := range levelOrder {
		s := Aggregate(byLevelRows[level])
		inner, innerRows := group(byLevelRows[level], func(a domain.GradeAssignment) string { return a.SemesterLabel })
		gpas := make([]float64, 0, len(inner))
		for _, sem := range inner {
			gpas = append(gpas, Aggregate(innerRows[sem]).GPA)
		}
		s.Trend, s.TrendMagnitude = trend(gpas)
		report.ByLevel[level] = s
	}
	return report
}

// group partitions assignments by key, preserving first-appearance order of keys
// and input order within each group.
func group(assignments []domain.GradeAssignment, key func(domain.GradeAssignment) string) ([]string, map[string][]domain.GradeAssignment) {
	var order []string
	rows := make(map[string][]domain.GradeAssignment)
	for _, a := range assignments {
		k := key(a)
		if _, ok := rows[k]; !ok {
			order = append(order, k)
		}
		rows[k] = append(rows[k], a)
	}
	if order == nil {
		order = []string{}
	}
	return order, rows
}

// trend compares the last two non-zero GPAs of a chronological series.
func trend(gpas []float64) (string, float64) {
	var later, earlier float64
	found := 0
	for i := len(gpas) - 1; i >= 0 && found < 2; i-- {
		if gpas[i] == 0 {
			continue
		}
		if found == 0 {
			later = gpas[i]
		} else {
			earlier = gpas[i]
		}
		found++
	}
	if found < 2 {
		return TrendNone, 0
	}
	diff := round2(later - earlier)
	switch {
	case diff > 0:
		return TrendUp, diff
	case diff < 0:
		return TrendDown, -diff
	default:
		return TrendStable, 0
	}
}
