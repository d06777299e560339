// Package gpa computes grade-point averages, trends and target projections from
// grade assignments. Every function is pure and safe for concurrent use.
package gpa

import (
	"math"

	"gradeledger/internal/domain"
)

// MaxGradePoint is the top of the grade-point scale.
const MaxGradePoint = 4.0

var gradePoints = map[string]float64{
	domain.GradeAPlus:  4.0,
	domain.GradeA:      4.0,
	domain.GradeAMinus: 3.7,
	domain.GradeBPlus:  3.3,
	domain.GradeB:      3.0,
	domain.GradeBMinus: 2.7,
	domain.GradeCPlus:  2.3,
	domain.GradeC:      2.0,
	domain.GradeCMinus: 1.7,
	domain.GradeDPlus:  1.3,
	domain.GradeD:      1.0,
	domain.GradeF:      0.0,
}

// GradePoint returns the grade point of a canonical grade. Markers such as AB,
// W, I, P and NP, and any unrecognized token, have no grade point and report false.
func GradePoint(grade string) (float64, bool) {
	p, ok := gradePoints[grade]
	return p, ok
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
