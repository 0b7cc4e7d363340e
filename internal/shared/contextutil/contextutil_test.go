package contextutil_test

import (
	"context"
	"testing"

	"go-selfservice/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContextutil(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, contextutil.GetRequestID(ctx))
	assert.Empty(t, contextutil.GetEmployeeID(ctx))
	assert.NotNil(t, contextutil.GetLogger(ctx, nil))

	ctx = contextutil.WithRequestID(ctx, "rid-1")
	ctx = contextutil.WithEmployeeID(ctx, "emp-1")
	meta := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "rid-1", meta.RequestID)
	assert.Equal(t, "emp-1", meta.EmployeeID)

	l := zap.NewExample()
	assert.Same(t, l, contextutil.GetLogger(contextutil.WithLogger(ctx, l), nil))
	fallback := zap.NewNop()
	assert.Same(t, fallback, contextutil.GetLogger(ctx, fallback))
}
