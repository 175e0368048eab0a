package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/docuchat/backend/internal/rag"
	"github.com/docuchat/backend/internal/source"
	"github.com/docuchat/backend/pkg/chunker"
	"github.com/docuchat/backend/pkg/textextract"
)

// Ingester is the slice of the pipeline the source handlers need.
type Ingester interface {
	Ingest(ctx context.Context, src rag.Source) (*rag.IngestResult, error)
}

// PageFetcher loads a URL's visible text.
type PageFetcher interface {
	Page(ctx context.Context, url string) (string, error)
}

type SourcesHandler struct {
	ingester Ingester
	sources  *source.Service
	fetcher  PageFetcher
}

func NewSourcesHandler(ingester Ingester, sources *source.Service, fetcher PageFetcher) *SourcesHandler {
	return &SourcesHandler{ingester: ingester, sources: sources, fetcher: fetcher}
}

type sourceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	SizeBytes int64  `json:"size_bytes"`
	Chunks    int    `json:"chunks"`
}

const maxUploadBytes = 32 << 20 // 32MB

func (h *SourcesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	fileType := textextract.TypeFromFilename(header.Filename)
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read file"})
		return
	}

	extracted, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), fileType)
	if err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		return
	}

	h.ingestAndTrack(w, r, rag.Source{
		Text:  extracted.Content,
		Label: header.Filename,
		Kind:  rag.KindFile,
	}, header.Filename, fileType, header.Size)
}

func (h *SourcesHandler) PasteText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	const label = "Pasted Text"
	h.ingestAndTrack(w, r, rag.Source{
		Text:  req.Text,
		Label: label,
		Kind:  rag.KindText,
	}, label, "text", int64(len(req.Text)))
}

func (h *SourcesHandler) FetchURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url required"})
		return
	}

	text, err := h.fetcher.Page(r.Context(), req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "could not fetch url: " + err.Error()})
		return
	}

	h.ingestAndTrack(w, r, rag.Source{
		Text:  text,
		Label: req.URL,
		Kind:  rag.KindURL,
	}, req.URL, "url", int64(len(text)))
}

func (h *SourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": sources, "count": len(sources)})
}

func (h *SourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.sources.Remove(r.Context(), id); err != nil {
		if errors.Is(err, source.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "source not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *SourcesHandler) ingestAndTrack(w http.ResponseWriter, r *http.Request, src rag.Source, name, srcType string, sizeBytes int64) {
	result, err := h.ingester.Ingest(r.Context(), src)
	if err != nil {
		writeJSON(w, ingestStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if err := h.sources.Track(r.Context(), source.TrackedSource{
		ID:         result.CollectionID,
		Name:       name,
		Type:       srcType,
		SizeBytes:  sizeBytes,
		ChunkCount: result.ChunksStored,
	}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, sourceResponse{
		ID:        result.CollectionID,
		Name:      name,
		Type:      srcType,
		SizeBytes: sizeBytes,
		Chunks:    result.ChunksStored,
	})
}

func ingestStatus(err error) int {
	switch {
	case errors.Is(err, rag.ErrEmptySource), errors.Is(err, chunker.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, rag.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, rag.ErrEmbeddingService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
