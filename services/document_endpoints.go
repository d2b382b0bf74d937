package services

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/krshsl/admitwise/backend/models"
)

type DocumentEndpoints struct {
	documents *DocumentService
}

type SaveDocumentRequest struct {
	FileName     string            `json:"file_name" validate:"max=255"`
	DocumentType string            `json:"document_type" validate:"required"`
	ParsedData   models.ParsedData `json:"parsed_data"`
}

type ExtractDocumentRequest struct {
	FileName     string `json:"file_name" validate:"max=255"`
	DocumentType string `json:"document_type" validate:"required"`
	Text         string `json:"text" validate:"required"`
}

type GetDocumentsResponse struct {
	Documents []models.ParsedDocument `json:"documents"`
	Count     int                     `json:"count"`
}

func NewDocumentEndpoints(documents *DocumentService) *DocumentEndpoints {
	return &DocumentEndpoints{
		documents: documents,
	}
}

func (e *DocumentEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", e.SaveDocumentHandler)
		r.Post("/extract", e.ExtractDocumentHandler)
		r.Get("/", e.GetDocumentsHandler)
		r.Get("/stats", e.GetDocumentStatsHandler)
		r.Get("/{id}", e.GetDocumentHandler)
	})
}

func (e *DocumentEndpoints) SaveDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req SaveDocumentRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc, err := e.documents.SaveParsedDocument(r.Context(), req.FileName, req.DocumentType, req.ParsedData)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (e *DocumentEndpoints) ExtractDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req ExtractDocumentRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc, err := e.documents.ExtractAndSave(r.Context(), req.FileName, req.DocumentType, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (e *DocumentEndpoints) GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, ErrInvalidRequest)
			return
		}
		limit = n
	}

	docs, err := e.documents.ListDocuments(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetDocumentsResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

func (e *DocumentEndpoints) GetDocumentStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := e.documents.DocumentStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (e *DocumentEndpoints) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, ErrDocumentNotFound)
		return
	}

	doc, err := e.documents.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
