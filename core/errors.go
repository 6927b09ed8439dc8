package core

import "fmt"

// ExecutionError reports a statement that failed against the database. It
// carries the statement text and table name so the failure can be diagnosed
// without re-running with added instrumentation. The underlying driver
// error is reachable through errors.Unwrap.
type ExecutionError struct {
	Table     string
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("table %s: %q: %v", e.Table, e.Statement, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
