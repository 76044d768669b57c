package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RecordsAndShutsDown(t *testing.T) {
	o, err := New("ats-console-test")
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		o.RecordView(ctx, "pipeline", time.Now().Add(-3*time.Millisecond))
		_, span := o.Tracer().Start(ctx, "backend.test")
		span.End()
	})
	assert.NoError(t, o.Shutdown(ctx))
}

func TestNoopAndNil(t *testing.T) {
	ctx := context.Background()
	o := NewNoop()
	assert.NotPanics(t, func() { o.RecordView(ctx, "inbox", time.Now()) })
	assert.NoError(t, o.Shutdown(ctx))

	var nilObs *Observability
	assert.NotPanics(t, func() { nilObs.RecordView(ctx, "inbox", time.Now()) })
	assert.NotNil(t, nilObs.Tracer())
	assert.NoError(t, nilObs.Shutdown(ctx))
}
