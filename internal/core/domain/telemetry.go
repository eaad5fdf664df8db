package domain

// VertexStatus represents the lifecycle state of a recorded pipeline step.
type VertexStatus string

const (
	// VertexStatusRunning indicates the step is in progress.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the step finished successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the step returned an error.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the step finished without changing anything.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Cached).
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}
