package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/docuchat/backend/internal/rag"
)

// Answerer is the slice of the pipeline the chat handler needs.
type Answerer interface {
	Answer(ctx context.Context, question string, collectionIDs []string) (*rag.AnswerResult, error)
}

const apologyAnswer = "Sorry, I couldn't generate an answer right now. Please try again."

type ChatHandler struct {
	answerer Answerer
}

func NewChatHandler(a Answerer) *ChatHandler {
	return &ChatHandler{answerer: a}
}

type chatRequest struct {
	Question  string   `json:"question"`
	SourceIDs []string `json:"source_ids"`
}

type chatResponse struct {
	Answer            string   `json:"answer"`
	SourcesSearched   int      `json:"sources_searched"`
	FailedCollections []string `json:"failed_collections,omitempty"`
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question required"})
		return
	}

	result, err := h.answerer.Answer(r.Context(), req.Question, req.SourceIDs)
	if err != nil {
		// The user gets a graceful apology instead of a raw failure when
		// generation itself broke down.
		if errors.Is(err, rag.ErrGeneration) {
			writeJSON(w, http.StatusOK, chatResponse{Answer: apologyAnswer})
			return
		}
		if errors.Is(err, rag.ErrEmbeddingService) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:            result.Answer,
		SourcesSearched:   result.SourcesSearched,
		FailedCollections: result.FailedCollections,
	})
}
