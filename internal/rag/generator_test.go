package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PromptShape(t *testing.T) {
	gw := &fakeGateway{resp: answerResponse("42")}
	g := NewGenerator(gw, "gpt-4o-mini")

	answer, err := g.Generate(context.Background(), "What is the answer?", "Deep Thought computed 42.")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	require.Len(t, gw.lastReq.Messages, 1)
	prompt := gw.lastReq.Messages[0].Content
	assert.Equal(t, "user", gw.lastReq.Messages[0].Role)
	assert.Equal(t, "gpt-4o-mini", gw.lastReq.Model)
	assert.Contains(t, prompt, "Use the following context to answer the question")
	assert.Contains(t, prompt, "Context:\nDeep Thought computed 42.", "context is embedded verbatim")
	assert.Contains(t, prompt, "Question: What is the answer?")
}

func TestGenerate_EmptyAnswerIsGenerationError(t *testing.T) {
	gw := &fakeGateway{resp: answerResponse("   ")}
	g := NewGenerator(gw, "")

	_, err := g.Generate(context.Background(), "q", "ctx")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerate_UpstreamErrorIsGenerationError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("quota exceeded")}
	g := NewGenerator(gw, "")

	_, err := g.Generate(context.Background(), "q", "ctx")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerate_DefaultModel(t *testing.T) {
	gw := &fakeGateway{resp: answerResponse("ok")}
	g := NewGenerator(gw, "")

	_, err := g.Generate(context.Background(), "q", "ctx")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", gw.lastReq.Model)
}
