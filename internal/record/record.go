// Package record defines the ExecutionRecord data model shared by the
// wrapper, store, statistics and search layers.
package record

import (
	"fmt"
	"time"
)

// Status is the outcome of a single instrumented call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusSuccess || s == StatusError
}

// Record is one persisted observation of a single function call.
//
// Wrap-time fields (WrapID, FuncName, ModulePath, Source, Docstring,
// Dependencies, Tags) are captured once when the wrapper is constructed and
// repeated verbatim on every record that wrapper produces. They survive later
// edits or deletion of the source file.
type Record struct {
	ID           int64    `json:"id"`
	WrapID       string   `json:"wrap_id"`
	FuncName     string   `json:"func_name"`
	ModulePath   string   `json:"module_path,omitempty"`
	Source       string   `json:"source_code,omitempty"`
	Docstring    string   `json:"doc_string,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Tags         []string `json:"tags"`

	// Call-time fields.
	Args   string `json:"args"`   // JSON array of positional arguments
	Kwargs string `json:"kwargs"` // JSON object from a trailing options struct, "{}" otherwise

	Status       Status `json:"status"`
	ReturnValue  string `json:"return_value,omitempty"`  // set iff Status == StatusSuccess
	ErrorType    string `json:"error_type,omitempty"`    // set iff Status == StatusError
	ErrorMessage string `json:"error_message,omitempty"` // set iff Status == StatusError
	ErrorCause   string `json:"error_cause,omitempty"`   // single-level cause, optional
	ErrorStack   string `json:"error_stack,omitempty"`   // panic stack, optional

	StartTime time.Time `json:"start_time"`
	Duration  float64   `json:"duration"` // seconds, >= 0
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the invariants the store refuses to persist without:
// a known status, non-negative duration, and the return/error fields gated
// exclusively by status.
func (r *Record) Validate() error {
	if r.FuncName == "" {
		return fmt.Errorf("record: func_name is required")
	}
	if !r.Status.Valid() {
		return fmt.Errorf("record: invalid status %q", r.Status)
	}
	if r.Duration < 0 {
		return fmt.Errorf("record: negative duration %f", r.Duration)
	}
	switch r.Status {
	case StatusSuccess:
		if r.ErrorType != "" || r.ErrorMessage != "" {
			return fmt.Errorf("record: success record carries error fields")
		}
	case StatusError:
		if r.ErrorType == "" {
			return fmt.Errorf("record: error record missing error_type")
		}
		if r.ReturnValue != "" {
			return fmt.Errorf("record: error record carries return_value")
		}
	}
	return nil
}
