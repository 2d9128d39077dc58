package scoring

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Per-rule bonus factor for numeric and enum rules. Skill rules use the
// rule-set multipliers instead.
const bonusFactor = 5

// skillOutcome is the result of evaluating one skill rule list.
type skillOutcome struct {
	score   float64
	matched []MatchedItem
	missing []MissingItem
}

// evaluateSkills runs the keyword-or-regex matcher over a skill rule list.
// A match contributes weight x multiplier; a miss records the forgone score.
func (e *Engine) evaluateSkills(skillRules []rules.SkillRule, skills map[string]struct{}, rawText string, multiplier float64) skillOutcome {
	var out skillOutcome
	for _, rule := range skillRules {
		itemScore := float64(rule.Weight) * multiplier
		via, ok := e.matchSkill(rule, skills, rawText)
		if ok {
			out.score += itemScore
			out.matched = append(out.matched, MatchedItem{
				Name:       rule.Skill,
				Weight:     rule.Weight,
				Score:      itemScore,
				MatchedVia: via,
			})
			continue
		}
		out.missing = append(out.missing, MissingItem{
			Name:           rule.Skill,
			Weight:         rule.Weight,
			PotentialScore: itemScore,
		})
	}
	return out
}

// bonusOutcome is the result of evaluating numeric or enum rules. These are
// pure bonuses: non-matches contribute nothing and record nothing.
type bonusOutcome struct {
	score   float64
	matched []MatchedItem
}

// evaluateNumeric scores numeric rules against the candidate's typed fields.
// A missing or unparseable field skips the rule.
func (e *Engine) evaluateNumeric(c *candidate.Record) bonusOutcome {
	var out bonusOutcome
	for _, rule := range e.rules.NumericRules {
		value, ok := c.NumericField(rule.Field)
		if !ok {
			continue
		}
		if !matchNumeric(rule, value) {
			continue
		}
		itemScore := float64(rule.Weight) * bonusFactor
		out.score += itemScore
		out.matched = append(out.matched, MatchedItem{
			Name:       rule.Label,
			Weight:     rule.Weight,
			Score:      itemScore,
			MatchedVia: fmt.Sprintf("%s=%g", rule.Field, value),
		})
	}
	return out
}

// evaluateEnum scores enum rules by case-insensitive set membership.
// A missing field skips the rule.
func (e *Engine) evaluateEnum(c *candidate.Record) bonusOutcome {
	var out bonusOutcome
	for _, rule := range e.rules.EnumRules {
		value, ok := c.StringField(rule.Field)
		if !ok {
			continue
		}
		if !matchEnum(rule, value) {
			continue
		}
		itemScore := float64(rule.Weight) * bonusFactor
		out.score += itemScore
		out.matched = append(out.matched, MatchedItem{
			Name:       rule.Label,
			Weight:     rule.Weight,
			Score:      itemScore,
			MatchedVia: fmt.Sprintf("%s=%s", rule.Field, value),
		})
	}
	return out
}

// rejectOutcome is the result of the reject-keyword pass.
type rejectOutcome struct {
	penalty float64
	matched []string
}

// evaluateReject accumulates penalties for every reject keyword found in the
// raw text. Penalties are additive and uncapped here; clamping happens at
// final aggregation.
func (e *Engine) evaluateReject(rawText string) rejectOutcome {
	var out rejectOutcome
	for _, rule := range e.rules.RejectRules {
		if strings.Contains(rawText, strings.ToLower(rule.Keyword)) {
			out.penalty += rule.Penalty
			out.matched = append(out.matched, rule.Keyword)
		}
	}
	return out
}
