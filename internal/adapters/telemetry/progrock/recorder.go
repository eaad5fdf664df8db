// Package progrock records isolation steps as progrock vertices.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Step is the outcome of one recorded vertex.
type Step struct {
	Name   string
	Status domain.VertexStatus
	Err    error
}

// Recorder implements ports.Telemetry on a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu    sync.Mutex
	steps []*Step
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex named after the step. Steps with the same name share
// a digest, so a repeated step shows up as one vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	step := &Step{Name: name, Status: domain.VertexStatusRunning}
	r.mu.Lock()
	r.steps = append(r.steps, step)
	r.mu.Unlock()

	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v, step: step, mu: &r.mu}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Steps returns the recorded steps in start order.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Step, len(r.steps))
	for i, s := range r.steps {
		out[i] = *s
	}
	return out
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
