package scoring

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/candidex/internal/domain/candidate"
)

// identifyRisks runs the heuristic post-pass over the evaluator outputs.
// Emission order is fixed: reject keywords, critical missing must-skills,
// low experience, failed education constraint, low overall total. The total
// check is independent of the others; risks are not deduplicated.
func (e *Engine) identifyRisks(c *candidate.Record, must skillOutcome, reject rejectOutcome, total float64) []RiskItem {
	var risks []RiskItem

	if len(reject.matched) > 0 {
		risks = append(risks, RiskItem{
			Category:    RiskRejectKeyword,
			Severity:    SeverityHigh,
			Description: "contains reject keywords: " + strings.Join(reject.matched, ", "),
			Impact:      fmt.Sprintf("%.1f points deducted", reject.penalty),
		})
	}

	var critical []string
	for _, m := range must.missing {
		if m.Weight >= 3 {
			critical = append(critical, m.Name)
		}
	}
	if len(critical) > 0 {
		risks = append(risks, RiskItem{
			Category:    RiskMissingMust,
			Severity:    SeverityHigh,
			Description: "missing critical skills: " + strings.Join(critical, ", "),
			Impact:      "weakens the core competency assessment",
		})
	}

	// Absent work_years is "no evidence", not a risk.
	if c.WorkYears != nil && *c.WorkYears < 2 {
		severity := SeverityMedium
		if *c.WorkYears == 0 {
			severity = SeverityHigh
		}
		risks = append(risks, RiskItem{
			Category:    RiskLowExperience,
			Severity:    severity,
			Description: fmt.Sprintf("limited work experience: %g years", *c.WorkYears),
			Impact:      "may lack hands-on project experience",
		})
	}

	if risk, ok := e.educationRisk(c); ok {
		risks = append(risks, risk)
	}

	if total < e.rules.Thresholds.C {
		risks = append(risks, RiskItem{
			Category:    RiskOther,
			Severity:    SeverityHigh,
			Description: "overall match is low",
			Impact:      fmt.Sprintf("total %.1f is below the C threshold of %g", total, e.rules.Thresholds.C),
		})
	}

	return risks
}

// educationRisk flags a candidate whose non-empty education value fails an
// education enum rule defined by the policy.
func (e *Engine) educationRisk(c *candidate.Record) (RiskItem, bool) {
	for _, rule := range e.rules.EnumRules {
		if !strings.Contains(strings.ToLower(rule.Field), "education") {
			continue
		}
		value, ok := c.StringField(rule.Field)
		if !ok {
			continue
		}
		if matchEnum(rule, value) {
			continue
		}
		return RiskItem{
			Category:    RiskLowEducation,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("education %q does not meet the requirement", value),
			Impact:      "expected one of: " + strings.Join(rule.Values, ", "),
		}, true
	}
	return RiskItem{}, false
}
