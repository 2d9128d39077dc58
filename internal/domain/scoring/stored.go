package scoring

// StoredResult wraps a Result with the identity it is persisted and
// compared under.
type StoredResult struct {
	ID            string `json:"id"`
	CandidateName string `json:"candidate_name,omitempty"`
	Result        Result `json:"result"`
}
