package result

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/candidex/internal/domain/scoring"
)

// Plain fields are duplicated out of the JSON blob so results can be
// eyeballed and filtered with redis-cli.
const (
	fieldID          = "id"
	fieldCandidate   = "candidate_name"
	fieldRuleVersion = "rule_version"
	fieldTotalScore  = "total_score"
	fieldGrade       = "grade"
	fieldResult      = "result_json"
)

func resultToHash(res scoring.StoredResult) (map[string]string, error) {
	data, err := json.Marshal(res.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return map[string]string{
		fieldID:          res.ID,
		fieldCandidate:   res.CandidateName,
		fieldRuleVersion: res.Result.RuleVersion,
		fieldTotalScore:  strconv.FormatFloat(res.Result.TotalScore, 'f', 1, 64),
		fieldGrade:       string(res.Result.Grade),
		fieldResult:      string(data),
	}, nil
}

func resultFromHash(m map[string]string) (scoring.StoredResult, error) {
	res := scoring.StoredResult{
		ID:            m[fieldID],
		CandidateName: m[fieldCandidate],
	}
	if err := json.Unmarshal([]byte(m[fieldResult]), &res.Result); err != nil {
		return scoring.StoredResult{}, fmt.Errorf("unmarshal result %s: %w", res.ID, err)
	}
	return res, nil
}
