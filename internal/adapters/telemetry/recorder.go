// Package telemetry reports per-task progress through progrock.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"github.com/vito/progrock/console"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on a progrock recording session.
// Vertices may be opened from any goroutine; progrock serializes the updates.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder printing plain-text progress to stderr. Action
// stdout and stderr stream through the vertices, so compiler output reaches
// the user as it happens.
func New() *Recorder {
	return NewRecorder(console.NewWriter(os.Stderr))
}

// NewRecorder creates a Recorder emitting to the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record opens a vertex for the named task and threads it through ctx.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Vertex wraps *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns the vertex's standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns the vertex's error output stream.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Progress reports fractional completion as a log line on the vertex.
func (v *Vertex) Progress(frac float64) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%3.0f%%]\n", frac*100)
}

// Cached marks the vertex as an incremental skip.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// Complete marks the vertex as finished.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}
