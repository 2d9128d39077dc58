package ruleset

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Hash field names. Version and timestamps stay as plain fields so they can
// be inspected with redis-cli; the rule lists are stored as JSON blobs.
const (
	fieldVersion     = "version"
	fieldDescription = "description"
	fieldCreatedAt   = "created_at"
	fieldMustMult    = "must_multiplier"
	fieldNiceMult    = "nice_multiplier"
	fieldMustSkills  = "must_skills_json"
	fieldNiceSkills  = "nice_skills_json"
	fieldNumeric     = "numeric_rules_json"
	fieldEnum        = "enum_rules_json"
	fieldReject      = "reject_rules_json"
	fieldThresholds  = "thresholds_json"
)

func ruleSetToHash(rs rules.RuleSet) (map[string]string, error) {
	hash := map[string]string{
		fieldVersion:     rs.Version,
		fieldDescription: rs.Description,
		fieldCreatedAt:   strconv.FormatInt(rs.CreatedAt, 10),
		fieldMustMult:    strconv.FormatFloat(rs.MustMultiplier, 'g', -1, 64),
		fieldNiceMult:    strconv.FormatFloat(rs.NiceMultiplier, 'g', -1, 64),
	}

	for field, v := range map[string]any{
		fieldMustSkills: rs.MustSkills,
		fieldNiceSkills: rs.NiceSkills,
		fieldNumeric:    rs.NumericRules,
		fieldEnum:       rs.EnumRules,
		fieldReject:     rs.RejectRules,
		fieldThresholds: rs.Thresholds,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", field, err)
		}
		hash[field] = string(data)
	}

	return hash, nil
}

func ruleSetFromHash(m map[string]string) (rules.RuleSet, error) {
	rs := rules.RuleSet{
		Version:     m[fieldVersion],
		Description: m[fieldDescription],
	}

	if s := m[fieldCreatedAt]; s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return rules.RuleSet{}, fmt.Errorf("parse created_at: %w", err)
		}
		rs.CreatedAt = v
	}
	if s := m[fieldMustMult]; s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rules.RuleSet{}, fmt.Errorf("parse must_multiplier: %w", err)
		}
		rs.MustMultiplier = v
	}
	if s := m[fieldNiceMult]; s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rules.RuleSet{}, fmt.Errorf("parse nice_multiplier: %w", err)
		}
		rs.NiceMultiplier = v
	}

	for field, dst := range map[string]any{
		fieldMustSkills: &rs.MustSkills,
		fieldNiceSkills: &rs.NiceSkills,
		fieldNumeric:    &rs.NumericRules,
		fieldEnum:       &rs.EnumRules,
		fieldReject:     &rs.RejectRules,
		fieldThresholds: &rs.Thresholds,
	} {
		s := m[field]
		if s == "" || s == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(s), dst); err != nil {
			return rules.RuleSet{}, fmt.Errorf("unmarshal %s: %w", field, err)
		}
	}

	return rs, nil
}
