package core

// Input is one query/answer pair to grade. Context and Expected are
// optional; scorers treat the empty string as absent.
type Input struct {
	Query    string `json:"query" yaml:"query"`
	Answer   string `json:"answer" yaml:"answer"`
	Context  string `json:"context,omitempty" yaml:"context,omitempty"`
	Expected string `json:"expected_answer,omitempty" yaml:"expected_answer,omitempty"`
}

// HasExpected reports whether a reference answer was supplied.
func (in Input) HasExpected() bool {
	return in.Expected != ""
}

// Record is a dataset row: an Input plus identity and free-form metadata.
// Answer may be empty when a producer model drafts it at run time.
type Record struct {
	ID       string            `json:"id" yaml:"id"`
	Query    string            `json:"query" yaml:"query"`
	Answer   string            `json:"answer,omitempty" yaml:"answer,omitempty"`
	Context  string            `json:"context,omitempty" yaml:"context,omitempty"`
	Expected string            `json:"expected_answer,omitempty" yaml:"expected_answer,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Input converts the record to a scorer input, substituting answer when the
// record itself carries none.
func (r Record) Input(answer string) Input {
	if answer == "" {
		answer = r.Answer
	}
	return Input{
		Query:    r.Query,
		Answer:   answer,
		Context:  r.Context,
		Expected: r.Expected,
	}
}
