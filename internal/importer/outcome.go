package importer

import (
	"salesenq/internal"
)

// Outcome is the report of one import run.
type Outcome struct {
	RunID       string           `json:"runId"`
	Total       int              `json:"total"`
	Successful  int              `json:"successful"`
	Failed      int              `json:"failed"`
	Skipped     int              `json:"skipped"`
	Errors      []RowError       `json:"errors"`
	ColumnNames []string         `json:"columnNames"`
	Unmapped    []UnmappedColumn `json:"unmappedColumns"`
}

// RowError carries the 1-based data row index. Skipped rows are listed here
// too, with their skip reason.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// UnmappedColumn is a header no alias matched, with the closest known field
// when there is one.
type UnmappedColumn struct {
	Column     string `json:"column"`
	Suggestion string `json:"suggestion,omitempty"`
}

type RowState string

const (
	RowCreated RowState = "created"
	RowSkipped RowState = "skipped"
	RowFailed  RowState = "failed"
)

// RowResult is the terminal state of one row.
type RowResult struct {
	Index   int
	State   RowState
	Enquiry *internal.Enquiry
	Reason  string
}

func newOutcome(runID string, headers []string) Outcome {
	return Outcome{
		RunID:       runID,
		Errors:      []RowError{},
		ColumnNames: append([]string{}, headers...),
		Unmapped:    []UnmappedColumn{},
	}
}

func (o *Outcome) record(res RowResult) {
	switch res.State {
	case RowCreated:
		o.Successful++
	case RowSkipped:
		o.Skipped++
		o.Errors = append(o.Errors, RowError{Row: res.Index, Error: res.Reason})
	default:
		o.Failed++
		o.Errors = append(o.Errors, RowError{Row: res.Index, Error: res.Reason})
	}
}
