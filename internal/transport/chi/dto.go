package chi

import (
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
	healthuc "github.com/kailas-cloud/candidex/internal/usecase/health"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeRuleSetNotFound      ErrorCode = "ruleset_not_found"
	CodeRuleSetAlreadyExists ErrorCode = "ruleset_already_exists"
	CodeRuleSetActive        ErrorCode = "ruleset_active"
	CodeNoActiveRuleSet      ErrorCode = "no_active_ruleset"
	CodeResultNotFound       ErrorCode = "result_not_found"
	CodeExtractorError       ErrorCode = "extractor_error"
	CodeNotImplemented       ErrorCode = "not_implemented"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
}

// scoreRequest is the POST /score payload.
type scoreRequest struct {
	Candidate   candidate.Record `json:"candidate"`
	RuleVersion string           `json:"rule_version,omitempty"`
}

// scoreBatchRequest is the POST /score/batch payload.
type scoreBatchRequest struct {
	Candidates  []candidate.Record `json:"candidates"`
	RuleVersion string             `json:"rule_version,omitempty"`
}

// scoreBatchResponse wraps batch outcomes with a count for convenience.
type scoreBatchResponse struct {
	Results []domscore.StoredResult `json:"results"`
	Count   int                     `json:"count"`
}

// previewRequest is the POST /score/preview payload: an unstored rule set
// evaluated against a candidate, nothing persisted.
type previewRequest struct {
	RuleSet   rules.RuleSet    `json:"ruleset"`
	Candidate candidate.Record `json:"candidate"`
}

// ruleSetListResponse is the GET /rulesets payload.
type ruleSetListResponse struct {
	Items  []rules.RuleSet `json:"items"`
	Active string          `json:"active,omitempty"`
}

// extractTextRequest is the JSON form of POST /extract: raw resume text
// already in hand, no file upload.
type extractTextRequest struct {
	Text string `json:"text"`
}

// healthResponse is the GET /health payload.
type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}
