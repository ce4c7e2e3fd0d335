package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/history"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/storage"
)

type Comparer interface {
	Compute(ctx context.Context, req models.EmbeddingRequest) (models.SimilarityResult, error)
	Models() []string
}

type History interface {
	Record(ctx context.Context, req models.EmbeddingRequest) (models.Comparison, error)
	List(ctx context.Context, page, limit int) (models.ComparisonPage, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	comparer Comparer
	history  History
	logger   *logger.Logger
}

func NewHandler(comparer Comparer, hist History, log *logger.Logger) *Handler {
	return &Handler{comparer: comparer, history: hist, logger: log}
}

// computeRequest tells an omitted field from an empty one. Model stays raw
// so an explicit null can be told apart from an omitted model.
type computeRequest struct {
	Text1 *string         `json:"text1"`
	Text2 *string         `json:"text2"`
	Model json.RawMessage `json:"model"`
}

func (h *Handler) HandleComputeEmbeddings(w http.ResponseWriter, r *http.Request) {
	var body computeRequest
	if err := DecodeJSON(w, r, &body); err != nil {
		var httpErr *HTTPError
		errors.As(err, &httpErr)
		_ = JSONDetail(w, httpErr.Code, httpErr.Message)
		return
	}
	if body.Text1 == nil || body.Text2 == nil {
		_ = JSONDetail(w, http.StatusUnprocessableEntity, "text1 and text2 are required")
		return
	}

	req := models.EmbeddingRequest{
		Text1: *body.Text1,
		Text2: *body.Text2,
		Model: models.DefaultModel,
	}
	if body.Model != nil {
		if string(body.Model) == "null" || json.Unmarshal(body.Model, &req.Model) != nil {
			_ = JSONDetail(w, http.StatusUnprocessableEntity, "model must be a string")
			return
		}
	}

	res, err := h.comparer.Compute(r.Context(), req)
	if err != nil {
		var compErr *compare.ComputationError
		switch {
		case errors.Is(err, compare.ErrUnsupportedModel):
			_ = JSONDetail(w, http.StatusBadRequest, compare.UnsupportedModelMessage)
		case errors.Is(err, compare.ErrEmptyText):
			_ = JSONDetail(w, http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &compErr):
			_ = JSONDetail(w, http.StatusInternalServerError, compErr.Error())
		default:
			h.logger.Error("compute embeddings failed", err)
			_ = JSONDetail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	_ = JSONResponse(w, http.StatusOK, res)
}

func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	_ = JSONResponse(w, http.StatusOK, map[string]any{
		"models":  h.comparer.Models(),
		"default": models.DefaultModel,
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleCreateComparison(w http.ResponseWriter, r *http.Request) {
	var req models.EmbeddingRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
			_ = JSONError(w, httpErr.Code, httpErr.Message)
			return
		}
		_ = JSONError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	c, err := h.history.Record(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrTextsRequired):
			_ = JSONError(w, http.StatusBadRequest, "Both texts are required")
		case errors.Is(err, compare.ErrUnsupportedModel):
			_ = JSONError(w, http.StatusBadRequest, compare.UnsupportedModelMessage)
		default:
			h.logger.Error("record comparison failed", err)
			_ = JSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	_ = JSONResponse(w, http.StatusOK, models.SimilarityResult{Similarity: c.Similarity})
}

func (h *Handler) HandleListComparisons(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.history.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list comparisons failed", err)
		_ = JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_ = JSONResponse(w, http.StatusOK, res)
}

func (h *Handler) HandleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	err := h.history.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotFound):
		_ = JSONError(w, http.StatusNotFound, "Comparison not found")
	default:
		h.logger.Error("delete comparison failed", err)
		_ = JSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
