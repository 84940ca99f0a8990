package bench

// Record is one benchmark question with its ground truth. Records are
// produced by dataset loaders and consumed read-only by the Runner.
type Record struct {
	Dataset     string         `json:"dataset"`
	Question    string         `json:"question"`
	GroundTruth string         `json:"ground_truth"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Response is the structured shape an agent may return: an answer plus an
// optional rationale. Agents may also return a plain string, or any other
// value, which the runner stringifies.
type Response struct {
	Answer    string `json:"answer"`
	Rationale string `json:"rationale,omitempty"`
}

// EvalResult is the scored outcome of running one Record through the agent.
// It is created exactly once per record and never mutated afterwards.
type EvalResult struct {
	Question    string         `json:"question"`
	GroundTruth string         `json:"ground_truth"`
	Prediction  string         `json:"prediction"`
	Rationale   string         `json:"rationale"`
	Score       float64        `json:"score"`
	Dataset     string         `json:"dataset"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
