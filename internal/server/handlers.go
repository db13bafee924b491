package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
	"github.com/amodvardhan/ai-hub/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "user_id"

// maxUploadBytes caps multipart memory buffering; larger files spill to disk.
const maxUploadBytes = 32 << 20

// requireUser resolves the caller identity from the X-User-ID header. Requests
// without an identity are rejected; authentication itself happens upstream.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			s.respondError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	doc, err := s.documents.Upload(r.Context(), file, header.Filename, userID(r))
	if err != nil {
		s.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		if doc != nil {
			// The record exists with a failed status; hand the caller both.
			s.respondJSON(w, apperrors.HTTPStatus(err), map[string]interface{}{
				"error":    err.Error(),
				"document": doc,
			})
			return
		}
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	docs, err := s.documents.List(r.Context(), userID(r), offset, limit)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.documents.Get(r.Context(), id, userID(r))
	if err != nil {
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCreateEvaluation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	title := r.FormValue("rfp_title")
	if title == "" {
		s.respondError(w, http.StatusBadRequest, "rfp_title is required")
		return
	}
	rfpType := r.FormValue("rfp_type")
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	uid := userID(r)
	doc, err := s.documents.Upload(r.Context(), file, header.Filename, uid)
	if err != nil {
		s.logger.Error("evaluation upload failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	eval, err := s.evaluations.Create(r.Context(), uid, doc.ID, title, rfpType)
	if err != nil {
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, eval)
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	evals, err := s.evaluations.List(r.Context(), userID(r), offset, limit)
	if err != nil {
		s.logger.Error("list evaluations failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, evals)
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eval, err := s.evaluations.Get(r.Context(), id, userID(r))
	if err != nil {
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, eval)
}

func (s *Server) handleAnalyzeEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eval, err := s.evaluations.Analyze(r.Context(), id, userID(r))
	if err != nil {
		s.logger.Error("analysis failed", zap.String("evaluation_id", id), zap.Error(err))
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, eval)
}

type criterionRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

func (s *Server) handleAddCriterion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req criterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	crit, err := s.evaluations.AddCriterion(r.Context(), id, userID(r), req.Name, req.Type, req.Description, req.Weight)
	if err != nil {
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, crit)
}

func (s *Server) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	criteria, err := s.evaluations.ListCriteria(r.Context(), id, userID(r))
	if err != nil {
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, criteria)
}

func (s *Server) handleScoreCriterion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	crit, err := s.evaluations.ScoreCriterion(r.Context(), id, userID(r))
	if err != nil {
		s.logger.Error("criterion scoring failed", zap.String("criterion_id", id), zap.Error(err))
		s.respondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, crit)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.respondError(w, http.StatusNotImplemented, "search not enabled")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	s.logger.Debug("search request", zap.String("query", query), zap.Int("limit", limit))
	results, err := s.index.Search(userID(r), query, limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	evalCount, err := s.storage.CountEvaluations(ctx)
	if err != nil {
		s.logger.Error("status: count evaluations failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":   docCount,
		"evaluations": evalCount,
		"ai_model":    s.config.AI.Model,
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.UploadsDir,
		s.config.Storage.SearchIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func pagination(r *http.Request) (offset, limit int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
