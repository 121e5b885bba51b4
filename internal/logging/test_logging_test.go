package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		l, atom, err := New(Config{Level: in, Format: "json", OutputPath: "stderr"})
		require.NoError(t, err, in)
		assert.Equal(t, want, atom.Level(), in)
		assert.NotNil(t, l)
	}
}

func TestFromContext(t *testing.T) {
	base := zap.NewExample()
	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx, nil))

	assert.NotNil(t, FromContext(context.Background(), nil))
	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}
