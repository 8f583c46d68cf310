package telemetry_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/droverbuild/drover/internal/adapters/telemetry"
	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock/console"
)

func TestRecorder_ConsoleOutputReachesUser(t *testing.T) {
	var buf bytes.Buffer
	rec := telemetry.NewRecorder(console.NewWriter(&buf))

	_, vertex := rec.Record(context.Background(), "compile core.o")
	_, err := fmt.Fprintln(vertex.Stderr(), "core.c:12: warning: unused variable")
	require.NoError(t, err)
	vertex.Complete(nil)
	require.NoError(t, rec.Close())

	out := buf.String()
	assert.Contains(t, out, "compile core.o")
	assert.Contains(t, out, "core.c:12: warning: unused variable")
}

func TestRecorder_Record(t *testing.T) {
	rec := telemetry.New()

	ctx, vertex := rec.Record(context.Background(), "build libcore.a")
	require.NotNil(t, vertex)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := fmt.Fprintln(vertex.Stdout(), "cc -c core.c")
	require.NoError(t, err)
	vertex.Progress(0.5)
	vertex.Complete(nil)

	require.NoError(t, rec.Close())
}

func TestRecorder_CachedVertex(t *testing.T) {
	rec := telemetry.New()

	_, vertex := rec.Record(context.Background(), "skip app")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, rec.Close())
}

func TestNoop(t *testing.T) {
	noop := telemetry.NewNoop()

	ctx, vertex := noop.Record(context.Background(), "anything")
	_, ok := ports.VertexFromContext(ctx)
	assert.False(t, ok)

	_, err := fmt.Fprintln(vertex.Stdout(), "discarded")
	require.NoError(t, err)
	vertex.Progress(1)
	vertex.Cached()
	vertex.Complete(nil)
	require.NoError(t, noop.Close())
}
