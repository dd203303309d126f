package verify

import "fmt"

// ProofError reports a failure to verify one provable's proof. Label is
// filled in by the caller that knows which provable was being checked;
// package-internal constructors leave it empty.
type ProofError struct {
	Code  string
	Label string
	Msg   string
}

func (e *ProofError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Label, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func perr(code, format string, args ...any) *ProofError {
	return &ProofError{Code: code, Msg: fmt.Sprintf(format, args...)}
}
