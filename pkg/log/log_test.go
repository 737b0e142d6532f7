package log

import (
	"context"
	"io"
	"testing"

	contextPkg "SignCoach/pkg/context"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := test.NewLocal(logger)

	WithRequestID(logger, contextPkg.WithRequestID(context.Background(), "req-42")).Info("tagged")
	WithRequestID(logger, context.Background()).Info("untagged")

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].Data[RequestIDKey])
	assert.Equal(t, "unknown", entries[1].Data[RequestIDKey])
}
