package contextutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	ctx = WithEmployeeID(ctx, "emp-1")
	ctx = WithRole(ctx, "admin")

	md := ExtractMetadata(ctx)

	assert.Equal(t, Metadata{RequestID: "rid-1", EmployeeID: "emp-1", Role: "admin"}, md)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background(), nil))

	fallback := zap.NewNop()
	assert.Same(t, fallback, GetLogger(context.Background(), fallback))

	scoped := zap.NewExample()
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, GetLogger(ctx, fallback))
}
