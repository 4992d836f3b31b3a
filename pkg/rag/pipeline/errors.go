package pipeline

import "fmt"

// Stage names carried by pipeline errors and structured logs.
const (
	StageLoad        = "history_load"
	StageReformulate = "reformulate"
	StageRetrieve    = "retrieve"
	StageStream      = "stream"
	StagePersist     = "persist"
)

// StoreError reports a history load or save failure. Load failures degrade
// the request to an empty history; save failures surface as a result
// warning after the answer has already streamed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Stage() string {
	if e.Op == "save" {
		return StagePersist
	}
	return StageLoad
}

// ReformulationError aborts the request before any chunk is produced.
type ReformulationError struct {
	Err error
}

func (e *ReformulationError) Error() string {
	return fmt.Sprintf("query reformulation failed: %v", e.Err)
}

func (e *ReformulationError) Unwrap() error { return e.Err }

func (e *ReformulationError) Stage() string { return StageReformulate }

// RetrievalError aborts the request before any chunk is produced. Zero
// retrieved passages is a normal result and never raises this error.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("passage retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Stage() string { return StageRetrieve }

// GenerationError ends the stream early. Chunks already delivered stand;
// nothing is persisted for the failed request.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Stage() string { return StageStream }
