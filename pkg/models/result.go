package models

// Outcome is the per-integration result of one query attempt: either an
// answer or a failure description, never both.
type Outcome struct {
	// Integration is the backend this outcome belongs to.
	Integration Integration
	// Answer is the successful answer text. Empty when Err is set.
	Answer string
	// Err is the failure, nil on success.
	Err error
}

// Failed returns true if the outcome records a failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Text renders the outcome as the text surfaced to callers. Failures render
// as a labeled error string so partial results survive as data.
func (o Outcome) Text() string {
	if o.Err != nil {
		return "Error: " + o.Err.Error()
	}
	return o.Answer
}

// QueryResult is the final product of one orchestration pass. It is built
// once per query and never mutated after being returned.
type QueryResult struct {
	// Query is the original query text.
	Query string
	// Used lists the integrations actually executed.
	Used []Integration
	// Responses maps each attempted integration to its outcome text.
	Responses map[Integration]string
	// Synthesis is the final answer.
	Synthesis string
	// Suggested is the classifier's independently computed suggestion,
	// regardless of what the caller selected.
	Suggested []Integration
}
