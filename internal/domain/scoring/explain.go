package scoring

import (
	"fmt"
	"strings"
)

// buildExplanation renders the itemized scoring narrative. Section order and
// formatting are fixed so two runs over the same inputs produce identical
// text; score values use one decimal place throughout.
func (e *Engine) buildExplanation(total float64, grade Grade, must, nice skillOutcome, numeric, enum bonusOutcome, reject rejectOutcome, risks []RiskItem) string {
	var b strings.Builder

	b.WriteString("=== Scoring Details ===\n\n")
	fmt.Fprintf(&b, "Total: %.1f / 100\n", total)
	fmt.Fprintf(&b, "Grade: %s\n\n", grade)

	fmt.Fprintf(&b, "[Must-have skills] score: %.1f\n", must.score)
	if len(must.matched) > 0 {
		fmt.Fprintf(&b, "  matched (%d/%d):\n", len(must.matched), len(e.rules.MustSkills))
		for _, m := range must.matched {
			fmt.Fprintf(&b, "    - %s (weight %d, +%.1f)\n", m.Name, m.Weight, m.Score)
		}
	}
	if len(must.missing) > 0 {
		fmt.Fprintf(&b, "  missing (%d):\n", len(must.missing))
		for _, m := range must.missing {
			fmt.Fprintf(&b, "    - %s (weight %d, forgone %.1f)\n", m.Name, m.Weight, m.PotentialScore)
		}
	}
	b.WriteString("\n")

	if len(e.rules.NiceSkills) > 0 {
		fmt.Fprintf(&b, "[Nice-to-have skills] score: %.1f\n", nice.score)
		if len(nice.matched) > 0 {
			fmt.Fprintf(&b, "  matched (%d/%d):\n", len(nice.matched), len(e.rules.NiceSkills))
			for _, m := range nice.matched {
				fmt.Fprintf(&b, "    - %s (weight %d, +%.1f)\n", m.Name, m.Weight, m.Score)
			}
		} else {
			b.WriteString("  no nice-to-have skills matched\n")
		}
		b.WriteString("\n")
	}

	if len(e.rules.NumericRules) > 0 && len(numeric.matched) > 0 {
		fmt.Fprintf(&b, "[Numeric criteria] score: %.1f\n", numeric.score)
		for _, m := range numeric.matched {
			fmt.Fprintf(&b, "    - %s (weight %d, +%.1f, %s)\n", m.Name, m.Weight, m.Score, m.MatchedVia)
		}
		b.WriteString("\n")
	}

	if len(e.rules.EnumRules) > 0 && len(enum.matched) > 0 {
		fmt.Fprintf(&b, "[Enum criteria] score: %.1f\n", enum.score)
		for _, m := range enum.matched {
			fmt.Fprintf(&b, "    - %s (weight %d, +%.1f, %s)\n", m.Name, m.Weight, m.Score, m.MatchedVia)
		}
		b.WriteString("\n")
	}

	if len(reject.matched) > 0 {
		fmt.Fprintf(&b, "[Reject keywords] penalty: -%.1f\n", reject.penalty)
		for _, keyword := range reject.matched {
			fmt.Fprintf(&b, "    - %q (-%.1f)\n", keyword, e.rejectPenaltyFor(keyword))
		}
		b.WriteString("\n")
	}

	if len(risks) > 0 {
		b.WriteString("[Risks]\n")
		for _, r := range risks {
			fmt.Fprintf(&b, "  ! %s: %s\n", r.Severity, r.Description)
			fmt.Fprintf(&b, "    -> %s\n", r.Impact)
		}
		b.WriteString("\n")
	}

	b.WriteString("[Verdict]\n")
	b.WriteString(verdictFor(grade))

	return b.String()
}

// rejectPenaltyFor looks up the configured penalty for a matched keyword.
func (e *Engine) rejectPenaltyFor(keyword string) float64 {
	for _, rule := range e.rules.RejectRules {
		if rule.Keyword == keyword {
			return rule.Penalty
		}
	}
	return 0
}

func verdictFor(grade Grade) string {
	switch grade {
	case GradeA:
		return "Excellent candidate, strongly recommend an interview."
	case GradeB:
		return "Qualified candidate, recommend an interview."
	case GradeC:
		return "Marginally qualified, consider as a backup."
	default:
		return "Does not meet the position requirements, not recommended."
	}
}

// buildSummary renders the one-line restatement of total, grade label and
// risk count.
func buildSummary(total float64, grade Grade, riskCount int) string {
	labels := map[Grade]string{
		GradeA: "excellent",
		GradeB: "good",
		GradeC: "fair",
		GradeD: "poor",
	}
	s := fmt.Sprintf("score %.1f (%s)", total, labels[grade])
	if riskCount == 1 {
		s += ", 1 risk"
	} else if riskCount > 1 {
		s += fmt.Sprintf(", %d risks", riskCount)
	}
	return s
}
