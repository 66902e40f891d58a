package action

import "fmt"

// ParseError reports arguments an action could not be built from.
type ParseError struct {
	Action string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", ProgramName, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", ProgramName, e.Action, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SelectionError reports a missing or unknown action name. Catalog lists the
// actions that could have been chosen.
type SelectionError struct {
	Reason  string
	Catalog []Descriptor
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s", ProgramName, e.Reason)
}
