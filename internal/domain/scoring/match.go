package scoring

import (
	"strings"

	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Match provenance tags, kept on every MatchedItem for auditability.
const (
	ViaSkillsList = "skills_list"
	ViaRawText    = "raw_text"
	ViaRegex      = "regex"
)

// matchSkill tests one skill rule against the pre-lowercased candidate
// skills and raw text. Returns the provenance tag and whether it matched.
// Regex rules use the pattern compiled at engine construction; a rule whose
// pattern failed to compile never matches.
func (e *Engine) matchSkill(rule rules.SkillRule, skills map[string]struct{}, rawText string) (string, bool) {
	switch rule.Kind {
	case rules.MatchRegex:
		re := e.patterns[rule.Pattern]
		if re != nil && re.MatchString(rawText) {
			return ViaRegex, true
		}
	default:
		name := strings.ToLower(rule.Skill)
		if _, ok := skills[name]; ok {
			return ViaSkillsList, true
		}
		if strings.Contains(rawText, name) {
			return ViaRawText, true
		}
	}
	return "", false
}

// matchNumeric tests a coerced field value against the rule operator.
// Range bounds are inclusive on both ends.
func matchNumeric(rule rules.NumericRule, value float64) bool {
	switch rule.Operator {
	case rules.OpGTE:
		return value >= rule.Value
	case rules.OpLTE:
		return value <= rule.Value
	case rules.OpGT:
		return value > rule.Value
	case rules.OpLT:
		return value < rule.Value
	case rules.OpEQ:
		return value == rule.Value
	case rules.OpRange:
		return value >= rule.Min && value <= rule.Max
	default:
		return false
	}
}

// matchEnum tests a field value against the allowed set, case-insensitively.
func matchEnum(rule rules.EnumRule, value string) bool {
	lower := strings.ToLower(value)
	for _, v := range rule.Values {
		if strings.ToLower(v) == lower {
			return true
		}
	}
	return false
}

// lowerSkillSet builds a lookup set of lowercased candidate skills.
func lowerSkillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
