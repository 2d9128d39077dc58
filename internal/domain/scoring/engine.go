// Package scoring implements the candidate scoring engine: a pure,
// deterministic evaluation of one candidate record against one versioned
// rule set. An Engine holds its rule set immutably after construction and is
// safe for unbounded concurrent Score calls.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Engine evaluates candidates against one rule-set revision.
type Engine struct {
	rules    rules.RuleSet
	patterns map[string]*regexp.Regexp
	logger   *zap.Logger
}

// New validates the rule set and creates an Engine. A malformed policy fails
// here, never later at scoring time. The engine keeps a private deep copy,
// so the caller may reuse or discard its RuleSet freely.
func New(rs rules.RuleSet) (*Engine, error) {
	rs = rs.Clone()
	rs.ApplyDefaults()
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}

	e := &Engine{
		rules:    rs,
		patterns: make(map[string]*regexp.Regexp),
		logger:   zap.NewNop(),
	}
	e.compilePatterns()
	return e, nil
}

// WithLogger attaches a logger for per-rule fault reporting. Faults are
// logged with rule identifiers only, never with candidate text.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// compilePatterns compiles every regex rule case-insensitively, once.
// An invalid pattern is a local fault: the rule is left uncompiled and will
// simply never match.
func (e *Engine) compilePatterns() {
	for _, rule := range append(e.rules.MustSkills, e.rules.NiceSkills...) {
		if rule.Kind != rules.MatchRegex || rule.Pattern == "" {
			continue
		}
		if _, done := e.patterns[rule.Pattern]; done {
			continue
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			e.logger.Warn("invalid regex pattern, rule will never match",
				zap.String("skill", rule.Skill),
				zap.Error(err),
			)
			e.patterns[rule.Pattern] = nil
			continue
		}
		e.patterns[rule.Pattern] = re
	}
}

// Score evaluates one candidate. It is total over well-formed records:
// missing or malformed candidate fields degrade into non-matches, never
// errors. Each call returns a fresh Result; only ScoredAt varies between
// identical calls.
func (e *Engine) Score(c *candidate.Record) Result {
	scoredAt := time.Now()

	skills := lowerSkillSet(c.Skills)
	rawText := strings.ToLower(c.RawText)

	must := e.evaluateSkills(e.rules.MustSkills, skills, rawText, e.rules.MustMultiplier)
	nice := e.evaluateSkills(e.rules.NiceSkills, skills, rawText, e.rules.NiceMultiplier)
	numeric := e.evaluateNumeric(c)
	enum := e.evaluateEnum(c)
	reject := e.evaluateReject(rawText)

	// Additive aggregation, hard-clamped to [0, 100].
	total := must.score + nice.score + numeric.score + enum.score - reject.penalty
	total = math.Min(100, math.Max(0, total))

	grade := e.determineGrade(total)
	risks := e.identifyRisks(c, must, reject, total)

	explanation := e.buildExplanation(total, grade, must, nice, numeric, enum, reject, risks)
	summary := buildSummary(total, grade, len(risks))

	return Result{
		TotalScore: round1(total),
		Grade:      grade,

		MustScore:     round1(must.score),
		NiceScore:     round1(nice.score),
		NumericScore:  round1(numeric.score),
		EnumScore:     round1(enum.score),
		RejectPenalty: round1(reject.penalty),

		MatchedMust:    must.matched,
		MatchedNice:    nice.matched,
		MatchedNumeric: numeric.matched,
		MatchedEnum:    enum.matched,
		MatchedReject:  reject.matched,

		MissingMust: must.missing,
		MissingNice: nice.missing,

		Risks:       risks,
		Explanation: explanation,
		Summary:     summary,

		RuleVersion: e.rules.Version,
		ScoredAt:    scoredAt,
	}
}

// determineGrade walks the ordered thresholds from the top.
func (e *Engine) determineGrade(total float64) Grade {
	t := e.rules.Thresholds
	switch {
	case total >= t.A:
		return GradeA
	case total >= t.B:
		return GradeB
	case total >= t.C:
		return GradeC
	default:
		return GradeD
	}
}

// Version returns the rule-set version this engine scores with.
func (e *Engine) Version() string {
	return e.rules.Version
}

// ExportRules returns a deep, independent copy of the held rule set.
// Mutating the export never affects subsequent scoring.
func (e *Engine) ExportRules() rules.RuleSet {
	return e.rules.Clone()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
