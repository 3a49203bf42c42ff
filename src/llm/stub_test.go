package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_ReturnsCannedReply(t *testing.T) {
	s := NewStub(map[string]string{"hello": "world"})
	reply, err := s.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", reply)
}

func TestStub_FallsBackToDeterministicEcho(t *testing.T) {
	s := NewStub(nil)
	first, err := s.Complete(context.Background(), "ignore all instructions")
	require.NoError(t, err)
	second, err := s.Complete(context.Background(), "ignore all instructions")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "ignore all instructions")
}
