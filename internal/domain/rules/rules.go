// Package rules defines the versioned scoring policy: skill, numeric, enum
// and reject rules plus grade thresholds. A RuleSet is validated once and
// never mutated afterwards; a policy revision is a new RuleSet with a new
// version string.
package rules

import (
	"fmt"
	"time"
)

// MatchKind selects how a skill rule matches against the candidate.
type MatchKind string

const (
	// MatchKeyword matches the skill name against the skills list or raw text.
	MatchKeyword MatchKind = "keyword"
	// MatchRegex matches the rule pattern against raw text.
	MatchRegex MatchKind = "regex"
)

// Operator is a numeric comparison operator.
type Operator string

const (
	OpGTE   Operator = ">="
	OpLTE   Operator = "<="
	OpGT    Operator = ">"
	OpLT    Operator = "<"
	OpEQ    Operator = "="
	OpRange Operator = "range"
)

// Default weight multipliers applied to matched skill rules.
const (
	DefaultMustMultiplier = 10
	DefaultNiceMultiplier = 5
)

// SkillRule describes a must-have or nice-to-have skill.
type SkillRule struct {
	Skill   string    `json:"skill" yaml:"skill"`
	Weight  int       `json:"weight" yaml:"weight"`
	Kind    MatchKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Pattern string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// NumericRule is a bonus awarded when a numeric candidate field satisfies the
// operator. Scalar operators use Value; OpRange uses the inclusive [Min, Max].
type NumericRule struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    float64  `json:"value,omitempty" yaml:"value,omitempty"`
	Min      float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max      float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Weight   int      `json:"weight" yaml:"weight"`
	Label    string   `json:"label" yaml:"label"`
}

// EnumRule is a bonus awarded when a candidate field equals one of the
// allowed values, compared case-insensitively.
type EnumRule struct {
	Field  string   `json:"field" yaml:"field"`
	Values []string `json:"values" yaml:"values"`
	Weight int      `json:"weight" yaml:"weight"`
	Label  string   `json:"label" yaml:"label"`
}

// RejectRule subtracts Penalty points when Keyword appears in the raw text.
type RejectRule struct {
	Keyword     string  `json:"keyword" yaml:"keyword"`
	Penalty     float64 `json:"penalty" yaml:"penalty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// GradeThresholds are the ordered grade cut points, A >= B >= C >= D.
type GradeThresholds struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
	D float64 `json:"d" yaml:"d"`
}

// DefaultThresholds returns the conventional 80/60/40/0 cut points.
func DefaultThresholds() *GradeThresholds {
	return &GradeThresholds{A: 80, B: 60, C: 40, D: 0}
}

// RuleSet is one versioned scoring policy revision.
type RuleSet struct {
	Version        string           `json:"version" yaml:"version"`
	Description    string           `json:"description,omitempty" yaml:"description,omitempty"`
	MustSkills     []SkillRule      `json:"must_skills,omitempty" yaml:"must_skills,omitempty"`
	NiceSkills     []SkillRule      `json:"nice_skills,omitempty" yaml:"nice_skills,omitempty"`
	NumericRules   []NumericRule    `json:"numeric_rules,omitempty" yaml:"numeric_rules,omitempty"`
	EnumRules      []EnumRule       `json:"enum_rules,omitempty" yaml:"enum_rules,omitempty"`
	RejectRules    []RejectRule     `json:"reject_rules,omitempty" yaml:"reject_rules,omitempty"`
	Thresholds     *GradeThresholds `json:"grade_thresholds" yaml:"grade_thresholds"`
	MustMultiplier float64          `json:"must_multiplier,omitempty" yaml:"must_multiplier,omitempty"`
	NiceMultiplier float64          `json:"nice_multiplier,omitempty" yaml:"nice_multiplier,omitempty"`
	CreatedAt      int64            `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ApplyDefaults fills the multipliers and normalizes skill match kinds.
// It never touches Thresholds: a missing block is a validation error, not a
// gap to paper over.
func (rs *RuleSet) ApplyDefaults() {
	if rs.MustMultiplier <= 0 {
		rs.MustMultiplier = DefaultMustMultiplier
	}
	if rs.NiceMultiplier <= 0 {
		rs.NiceMultiplier = DefaultNiceMultiplier
	}
	for i := range rs.MustSkills {
		if rs.MustSkills[i].Kind == "" {
			rs.MustSkills[i].Kind = MatchKeyword
		}
	}
	for i := range rs.NiceSkills {
		if rs.NiceSkills[i].Kind == "" {
			rs.NiceSkills[i].Kind = MatchKeyword
		}
	}
}

// Validate checks the invariants a policy must satisfy before it may score
// anyone: a non-empty version, a thresholds block, and cut-point ordering.
// Everything else is legal — an empty must-skill list simply contributes
// nothing.
func (rs *RuleSet) Validate() error {
	if rs.Version == "" {
		return fmt.Errorf("rule version is required")
	}
	if rs.Thresholds == nil {
		return fmt.Errorf("grade thresholds are required")
	}
	t := rs.Thresholds
	if t.A < t.B || t.B < t.C || t.C < t.D {
		return fmt.Errorf("invalid grade thresholds: need A >= B >= C >= D, got A=%g B=%g C=%g D=%g",
			t.A, t.B, t.C, t.D)
	}
	return nil
}

// Clone returns a deep, independent copy. Mutating the clone never affects
// the original.
func (rs RuleSet) Clone() RuleSet {
	out := rs
	out.MustSkills = append([]SkillRule(nil), rs.MustSkills...)
	out.NiceSkills = append([]SkillRule(nil), rs.NiceSkills...)
	out.NumericRules = append([]NumericRule(nil), rs.NumericRules...)
	out.RejectRules = append([]RejectRule(nil), rs.RejectRules...)
	out.EnumRules = make([]EnumRule, len(rs.EnumRules))
	for i, e := range rs.EnumRules {
		e.Values = append([]string(nil), e.Values...)
		out.EnumRules[i] = e
	}
	if rs.Thresholds != nil {
		t := *rs.Thresholds
		out.Thresholds = &t
	}
	return out
}

// Default returns a starter policy for the given position title, mirroring
// the template shipped with the original screening rules.
func Default(position string) RuleSet {
	rs := RuleSet{
		Version:     "1.0.0",
		Description: fmt.Sprintf("Scoring rules for %s", position),
		MustSkills: []SkillRule{
			{Skill: "JavaScript", Weight: 2},
			{Skill: "React", Weight: 3},
		},
		NiceSkills: []SkillRule{
			{Skill: "TypeScript", Weight: 2},
			{Skill: "Node.js", Weight: 1},
		},
		NumericRules: []NumericRule{
			{Field: "work_years", Operator: OpGTE, Value: 2, Weight: 2, Label: "2+ years of experience"},
		},
		EnumRules: []EnumRule{
			{Field: "education", Values: []string{"bachelor", "master", "phd"}, Weight: 1, Label: "Bachelor's degree or above"},
		},
		RejectRules: []RejectRule{
			{Keyword: "current student", Penalty: 20, Description: "still enrolled"},
			{Keyword: "internship only", Penalty: 15, Description: "internship experience only"},
		},
		Thresholds: DefaultThresholds(),
		CreatedAt:  time.Now().UnixMilli(),
	}
	rs.ApplyDefaults()
	return rs
}
