package scoring

// Comparison is a pure diff of two scoring results, used to audit the effect
// of a rule-set revision on the same candidate.
type Comparison struct {
	ScoreDiff      float64 `json:"score_diff"`
	GradeChanged   bool    `json:"grade_changed"`
	VersionChanged bool    `json:"version_changed"`
}

// Compare diffs b against a: ScoreDiff is b.TotalScore - a.TotalScore.
func Compare(a, b Result) Comparison {
	return Comparison{
		ScoreDiff:      b.TotalScore - a.TotalScore,
		GradeChanged:   a.Grade != b.Grade,
		VersionChanged: a.RuleVersion != b.RuleVersion,
	}
}
