package scoring

import "time"

// Grade is the letter grade derived from the clamped total score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Severity ranks a risk note.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskCategory classifies a risk note.
type RiskCategory string

const (
	RiskRejectKeyword RiskCategory = "reject_keyword"
	RiskMissingMust   RiskCategory = "missing_must"
	RiskLowExperience RiskCategory = "low_experience"
	RiskLowEducation  RiskCategory = "low_education"
	RiskOther         RiskCategory = "other"
)

// MatchedItem records one satisfied rule and its score contribution.
type MatchedItem struct {
	Name       string  `json:"name"`
	Weight     int     `json:"weight"`
	Score      float64 `json:"score"`
	MatchedVia string  `json:"matched_via,omitempty"`
}

// MissingItem records one unsatisfied skill rule and the score it forwent.
type MissingItem struct {
	Name           string  `json:"name"`
	Weight         int     `json:"weight"`
	PotentialScore float64 `json:"potential_score"`
}

// RiskItem is an advisory annotation produced by the risk pass. Risks never
// feed back into the score.
type RiskItem struct {
	Category    RiskCategory `json:"category"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Impact      string       `json:"impact"`
}

// Result is the complete outcome of one scoring call. It is a pure value:
// repeated calls with the same rule set and candidate differ only in ScoredAt.
type Result struct {
	TotalScore float64 `json:"total_score"`
	Grade      Grade   `json:"grade"`

	MustScore     float64 `json:"must_score"`
	NiceScore     float64 `json:"nice_score"`
	NumericScore  float64 `json:"numeric_score"`
	EnumScore     float64 `json:"enum_score"`
	RejectPenalty float64 `json:"reject_penalty"`

	MatchedMust    []MatchedItem `json:"matched_must"`
	MatchedNice    []MatchedItem `json:"matched_nice"`
	MatchedNumeric []MatchedItem `json:"matched_numeric"`
	MatchedEnum    []MatchedItem `json:"matched_enum"`
	MatchedReject  []string      `json:"matched_reject"`

	MissingMust []MissingItem `json:"missing_must"`
	MissingNice []MissingItem `json:"missing_nice"`

	Risks []RiskItem `json:"risks"`

	Explanation string `json:"explanation"`
	Summary     string `json:"summary"`

	RuleVersion string    `json:"rule_version"`
	ScoredAt    time.Time `json:"scored_at"`
}
