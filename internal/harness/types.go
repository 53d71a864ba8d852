package harness

// CaseResult is the outcome of one scenario case.
type CaseResult struct {
	Index      int    `json:"index"`
	Name       string `json:"name,omitempty"`
	Mode       string `json:"mode"`
	Input      string `json:"input"`
	Expect     string `json:"expect"`
	Actual     string `json:"actual"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Pass       bool   `json:"pass"`
}

// JournalEntry is one conversion as the journal recorded it.
type JournalEntry struct {
	Seq    int64  `json:"seq"`
	Mode   string `json:"mode"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every case passed.
	Pass bool `json:"pass"`

	// Digest identifies the rule table the scenario ran against.
	Digest string `json:"digest"`

	Cases []CaseResult `json:"cases"`

	// Journal holds the conversions read back from the store, in seq order.
	Journal []JournalEntry `json:"journal"`

	// Errors contains one message per failed case. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Cases:   []CaseResult{},
		Journal: []JournalEntry{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase appends a case outcome.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
}

// Failed returns the cases that did not pass.
func (r *Result) Failed() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if !c.Pass {
			failed = append(failed, c)
		}
	}
	return failed
}
