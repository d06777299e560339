package gpa

// projectionEpsilon absorbs float error in otherwise exact boundary cases.
const projectionEpsilon = 1e-9

// Projection is the GPA needed over the remaining credits to reach a target.
type Projection struct {
	RequiredGPA      float64 `json:"required_gpa"`
	Achievable       bool    `json:"achievable"`
	MaxAchievableGPA float64 `json:"max_achievable_gpa"`
}

// Project computes the GPA required over remainingCredits to lift currentGPA
// over completedCredits to targetGPA. An out-of-range requirement is reported
// through Achievable, never as an error. With no remaining credits the
// requirement is 0.
func Project(currentGPA, completedCredits, targetGPA, remainingCredits float64) Projection {
	var p Projection
	total := completedCredits + remainingCredits
	earned := currentGPA * completedCredits

	var required float64
	if remainingCredits != 0 {
		required = (targetGPA*total - earned) / remainingCredits
	}
	// Judged before rounding so 4.004 is not reported as reachable.
	p.Achievable = required >= -projectionEpsilon && required <= MaxGradePoint+projectionEpsilon
	p.RequiredGPA = round2(required)

	if total != 0 {
		p.MaxAchievableGPA = round2((earned + remainingCredits*MaxGradePoint) / total)
	}
	return p
}
