package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuchat/backend/internal/llm"
)

const promptTemplate = `You are an assistant. Use the following context to answer the question:

Context:
%s

Question: %s
Answer:`

type Generator struct {
	gateway llm.Gateway
	model   string
}

func NewGenerator(gw llm.Gateway, model string) *Generator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Generator{gateway: gw, model: model}
}

// Generate builds the fixed-shape prompt with the context embedded verbatim
// and forwards it to the generation service. The returned text is used as-is.
func (g *Generator) Generate(ctx context.Context, question, contextStr string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, contextStr, question)

	resp, err := g.gateway.Chat(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if strings.TrimSpace(resp.Content) == "" {
		return "", ErrGeneration
	}
	return resp.Content, nil
}
