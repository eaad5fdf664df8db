package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/isolate/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
	step   *Step
	mu     *sync.Mutex
}

// Stdout returns the writer for the step's standard output.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns the writer for the step's error output.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Log writes a leveled line to the step's output.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)
}

// Complete marks the step finished, failed when err is non-nil.
func (v *Vertex) Complete(err error) {
	v.mu.Lock()
	v.step.Err = err
	switch {
	case err != nil:
		v.step.Status = domain.VertexStatusFailed
	case v.step.Status != domain.VertexStatusCached:
		v.step.Status = domain.VertexStatusCompleted
	}
	v.mu.Unlock()
	v.vertex.Done(err)
}

// Cached marks the step as having changed nothing.
func (v *Vertex) Cached() {
	v.mu.Lock()
	v.step.Status = domain.VertexStatusCached
	v.mu.Unlock()
	v.vertex.Cached()
}
