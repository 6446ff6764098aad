package models

// Phase identifies the stage of an archive run
type Phase string

const (
	// PhaseScan is the traversal stage that builds the plan
	PhaseScan Phase = "scan"
	// PhaseWrite is the stage that streams plan entries into the archive
	PhaseWrite Phase = "write"
)

// ProgressEvent is delivered synchronously after each accepted or written entry
type ProgressEvent struct {
	Phase Phase

	// Entry is the entry that was just scanned or written
	Entry *PlanEntry

	EntriesProcessed int
	BytesProcessed   uint64

	// TotalEntries and TotalBytes are only known during the write phase
	TotalEntries int
	TotalBytes   uint64
}

// ProgressFunc receives progress events. It is called from the goroutine
// running the operation.
type ProgressFunc func(event ProgressEvent)
